package bundle

import (
	"testing"

	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-bot-sol/internal/consts"
)

// testBlockhash 任意合法的 base58 32 字节串即可离线签名
func testBlockhash() string {
	return types.NewAccount().PublicKey.ToBase58()
}

func TestAssembleTransaction(t *testing.T) {
	payer := types.NewAccount()
	receiver := types.NewAccount()

	chunk := []types.Instruction{
		system.Transfer(system.TransferParam{
			From:   payer.PublicKey,
			To:     receiver.PublicKey,
			Amount: 1_000_000,
		}),
	}

	tx, err := AssembleTransaction(chunk, payer, testBlockhash(), nil)
	require.NoError(t, err)

	raw, err := tx.Serialize()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), consts.PacketDataSize)
}

func TestAssembleTransaction_ExtraSigners(t *testing.T) {
	payer := types.NewAccount()
	signerWallet := types.NewAccount()
	unrelated := types.NewAccount() // 公钥不在 chunk 中，不应参与签名

	chunk := []types.Instruction{
		system.Transfer(system.TransferParam{
			From:   signerWallet.PublicKey,
			To:     payer.PublicKey,
			Amount: 500_000,
		}),
	}

	tx, err := AssembleTransaction(chunk, payer, testBlockhash(), []types.Account{signerWallet, unrelated})
	require.NoError(t, err)

	// fee payer + 钱包签名者，多余的签名者被过滤
	assert.Len(t, tx.Signatures, 2)
}

func TestAssembleTransaction_TooLarge(t *testing.T) {
	payer := types.NewAccount()

	// 单条超大 payload，序列化后必然超过 1232 字节
	chunk := []types.Instruction{
		{
			ProgramID: consts.SystemProgram,
			Accounts: []types.AccountMeta{
				{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true},
			},
			Data: make([]byte, 1500),
		},
	}

	_, err := AssembleTransaction(chunk, payer, testBlockhash(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxTooLarge)
	// 错误信息必须带上实际字节数，指导调用方调小 chunk size
	assert.Contains(t, err.Error(), "bytes")
}

func TestAssembleTransaction_EmptyChunk(t *testing.T) {
	_, err := AssembleTransaction(nil, types.NewAccount(), testBlockhash(), nil)
	assert.Error(t, err)
}
