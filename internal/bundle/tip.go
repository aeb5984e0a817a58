package bundle

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
)

// AppendTip 在最后一个 chunk 末尾追加一条 tip 转账指令。
// 必须在所有功能性分块定型之后调用：relay 要求 tip 出现在 bundle
// 的最后一笔交易里，否则可能只落地部分交易。
// lamports = 0 时不追加，原样返回。
func AppendTip(chunks [][]types.Instruction, from, tipAccount common.PublicKey, lamports uint64) [][]types.Instruction {
	if len(chunks) == 0 || lamports == 0 {
		return chunks
	}
	last := len(chunks) - 1
	chunks[last] = append(chunks[last], system.Transfer(system.TransferParam{
		From:   from,
		To:     tipAccount,
		Amount: lamports,
	}))
	return chunks
}
