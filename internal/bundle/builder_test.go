package bundle

import (
	"testing"

	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferIns(payer types.Account, n int) []types.Instruction {
	ins := make([]types.Instruction, 0, n)
	for i := 0; i < n; i++ {
		ins = append(ins, system.Transfer(system.TransferParam{
			From:   payer.PublicKey,
			To:     types.NewAccount().PublicKey,
			Amount: uint64(i+1) * 1000,
		}))
	}
	return ins
}

func TestBuildBundle(t *testing.T) {
	payer := types.NewAccount()
	tipAccount := types.NewAccount().PublicKey

	txs, err := BuildBundle(transferIns(payer, 5), BuildParam{
		Payer:       payer,
		Blockhash:   testBlockhash(),
		ChunkSize:   2,
		TipAccount:  tipAccount,
		TipLamports: 10_000,
	})
	require.NoError(t, err)
	require.Len(t, txs, 3) // ceil(5/2)

	// tip 账户只出现在最后一笔交易里
	for i, tx := range txs {
		found := false
		for _, key := range tx.Message.Accounts {
			if key == tipAccount {
				found = true
			}
		}
		assert.Equal(t, i == len(txs)-1, found, "tx %d", i)
	}
}

func TestBuildBundle_ChunkPrefix(t *testing.T) {
	payer := types.NewAccount()

	prefix := []types.Instruction{
		compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{Units: 120_000}),
	}
	txs, err := BuildBundle(transferIns(payer, 4), BuildParam{
		Payer:       payer,
		Blockhash:   testBlockhash(),
		ChunkSize:   2,
		ChunkPrefix: prefix,
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// 每笔交易都带前置指令：指令数 = 前置 1 + chunk 2
	for _, tx := range txs {
		assert.Len(t, tx.Message.Instructions, 3)
	}
}

func TestBuildBundle_NoInstructions(t *testing.T) {
	_, err := BuildBundle(nil, BuildParam{Payer: types.NewAccount(), Blockhash: testBlockhash(), ChunkSize: 2})
	assert.Error(t, err)
}

func TestBuildBundles_SplitsAtRelayLimit(t *testing.T) {
	payer := types.NewAccount()
	tipAccount := types.NewAccount().PublicKey

	// 12 条指令、chunk 2 → 6 笔交易，超过单 bundle 上限 5，必须切成两个 bundle
	bundles, err := BuildBundles(transferIns(payer, 12), BuildParam{
		Payer:       payer,
		Blockhash:   testBlockhash(),
		ChunkSize:   2,
		TipAccount:  tipAccount,
		TipLamports: 10_000,
	})
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Len(t, bundles[0], 5)
	assert.Len(t, bundles[1], 1)

	// 每个 bundle 的末笔交易都携带 tip，其余交易不带
	for b, txs := range bundles {
		require.LessOrEqual(t, len(txs), 5)
		for i, tx := range txs {
			found := false
			for _, key := range tx.Message.Accounts {
				if key == tipAccount {
					found = true
				}
			}
			assert.Equal(t, i == len(txs)-1, found, "bundle %d tx %d", b, i)
		}
	}
}

func TestBuildBundles_SingleBundlePassthrough(t *testing.T) {
	payer := types.NewAccount()

	bundles, err := BuildBundles(transferIns(payer, 5), BuildParam{
		Payer:     payer,
		Blockhash: testBlockhash(),
		ChunkSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Len(t, bundles[0], 3) // ceil(5/2)
}

func TestBuildBundles_NoInstructions(t *testing.T) {
	_, err := BuildBundles(nil, BuildParam{Payer: types.NewAccount(), Blockhash: testBlockhash(), ChunkSize: 2})
	assert.Error(t, err)
}

func TestBuildBundle_PropagatesTooLarge(t *testing.T) {
	payer := types.NewAccount()
	huge := []types.Instruction{
		{
			ProgramID: payer.PublicKey,
			Accounts:  []types.AccountMeta{{PubKey: payer.PublicKey, IsSigner: true, IsWritable: true}},
			Data:      make([]byte, 1500),
		},
	}
	_, err := BuildBundle(huge, BuildParam{Payer: payer, Blockhash: testBlockhash(), ChunkSize: 2})
	assert.ErrorIs(t, err, ErrTxTooLarge)
}
