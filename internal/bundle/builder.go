package bundle

import (
	"errors"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"volume-bot-sol/internal/consts"
)

// BuildParam 一次 bundle 构建所需的全部输入。钱包集合由调用方显式传入，
// 不存在进程级"当前钱包"状态。
type BuildParam struct {
	Payer        types.Account       // 费用支付方，同时是 tip 出资方
	ExtraSigners []types.Account     // chunk 中可能出现的其它签名钱包
	Blockhash    string              // 最近 blockhash，整个 bundle 共用
	ChunkSize    int                 // 每笔交易的指令条数上限（不含前置指令）
	ChunkPrefix  []types.Instruction // 每个 chunk 前置的指令（如 compute budget）
	TipAccount   common.PublicKey
	TipLamports  uint64 // 0 表示不注入 tip
}

// BuildBundle 完成 chunk → tip → assemble 流水线，产出有序的签名交易列表。
// 任何一笔交易超限都会使整个构建失败（ErrTxTooLarge），不做部分提交。
func BuildBundle(ins []types.Instruction, p BuildParam) ([]types.Transaction, error) {
	if len(ins) == 0 {
		return nil, errors.New("no instructions to bundle")
	}

	chunks := ChunkInstructions(ins, p.ChunkSize)
	if len(p.ChunkPrefix) > 0 {
		for i := range chunks {
			chunks[i] = append(append([]types.Instruction{}, p.ChunkPrefix...), chunks[i]...)
		}
	}
	// tip 只进最后一个 chunk，且必须在分块（含前置）定型之后注入
	chunks = AppendTip(chunks, p.Payer.PublicKey, p.TipAccount, p.TipLamports)

	txs := make([]types.Transaction, 0, len(chunks))
	for _, chunk := range chunks {
		tx, err := AssembleTransaction(chunk, p.Payer, p.Blockhash, p.ExtraSigners)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// BuildBundles 在 BuildBundle 之上按 relay 的单 bundle 交易数上限分组：
// 指令流先切成每组最多 ChunkSize*MaxBundleTxCount 条，每组独立构建一个
// bundle，tip 落在该组最后一笔交易。组间顺序与指令顺序一致，
// 任一组构建失败则整体失败。
func BuildBundles(ins []types.Instruction, p BuildParam) ([][]types.Transaction, error) {
	if len(ins) == 0 {
		return nil, errors.New("no instructions to bundle")
	}
	size := p.ChunkSize
	if size < 1 {
		size = 1
	}

	groups := ChunkInstructions(ins, size*consts.MaxBundleTxCount)
	bundles := make([][]types.Transaction, 0, len(groups))
	for _, group := range groups {
		txs, err := BuildBundle(group, p)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, txs)
	}
	return bundles, nil
}
