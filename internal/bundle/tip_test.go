package bundle

import (
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTip_LastChunkOnly(t *testing.T) {
	from := types.NewAccount().PublicKey
	tipAccount := types.NewAccount().PublicKey

	chunks := ChunkInstructions(makeIns(7), 3) // 3 + 3 + 1
	require.Len(t, chunks, 3)

	chunks = AppendTip(chunks, from, tipAccount, 10_000)

	// 前面的 chunk 不变
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)

	// tip 是最后一个 chunk 的最后一条指令
	last := chunks[2]
	require.Len(t, last, 2)
	tip := last[len(last)-1]
	require.Len(t, tip.Accounts, 2)
	assert.Equal(t, from, tip.Accounts[0].PubKey)
	assert.Equal(t, tipAccount, tip.Accounts[1].PubKey)
	assert.True(t, tip.Accounts[0].IsSigner)
}

func TestAppendTip_ZeroAmountNoop(t *testing.T) {
	from := types.NewAccount().PublicKey
	tipAccount := types.NewAccount().PublicKey

	chunks := ChunkInstructions(makeIns(4), 2)
	chunks = AppendTip(chunks, from, tipAccount, 0)

	for _, c := range chunks {
		assert.Len(t, c, 2)
	}
}

func TestAppendTip_EmptyChunks(t *testing.T) {
	assert.Nil(t, AppendTip(nil, types.NewAccount().PublicKey, types.NewAccount().PublicKey, 10_000))
}
