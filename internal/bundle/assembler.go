package bundle

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"volume-bot-sol/internal/consts"
)

// ErrTxTooLarge 序列化后超过 1232 字节上限。该错误对当前批次是终态，
// 调用方应调小 chunk size 重试，这里不做自动重分块。
var ErrTxTooLarge = errors.New("serialized transaction too large")

// AssembleTransaction 将一个 chunk 的指令编译为签名交易。
// extraSigners 中只有公钥真正出现在 chunk 账户列表里的才参与签名，
// 传入未引用的签名者不算错误。
func AssembleTransaction(
	chunk []types.Instruction,
	payer types.Account,
	blockhash string,
	extraSigners []types.Account,
) (types.Transaction, error) {
	if len(chunk) == 0 {
		return types.Transaction{}, errors.New("empty instruction chunk")
	}

	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        payer.PublicKey,
		RecentBlockhash: blockhash,
		Instructions:    chunk,
	})

	signers := []types.Account{payer}
	required := requiredSigners(chunk)
	for _, s := range extraSigners {
		if s.PublicKey == payer.PublicKey {
			continue
		}
		if required[s.PublicKey] {
			signers = append(signers, s)
		}
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: msg,
		Signers: signers,
	})
	if err != nil {
		return types.Transaction{}, fmt.Errorf("build transaction: %w", err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		return types.Transaction{}, fmt.Errorf("serialize transaction: %w", err)
	}
	if len(raw) > consts.PacketDataSize {
		return types.Transaction{}, fmt.Errorf("%w: %d bytes > %d limit, reduce chunk size",
			ErrTxTooLarge, len(raw), consts.PacketDataSize)
	}
	return tx, nil
}

// requiredSigners 收集 chunk 中标记为 signer 的账户公钥
func requiredSigners(chunk []types.Instruction) map[common.PublicKey]bool {
	required := make(map[common.PublicKey]bool)
	for _, ins := range chunk {
		for _, meta := range ins.Accounts {
			if meta.IsSigner {
				required[meta.PubKey] = true
			}
		}
	}
	return required
}
