package market

import (
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-bot-sol/internal/consts"
)

func swapParam() SwapParam {
	return SwapParam{
		Market:   types.NewAccount().PublicKey,
		BaseMint: types.NewAccount().PublicKey,
		User:     types.NewAccount().PublicKey,
	}
}

func TestBuy_Payload(t *testing.T) {
	p := swapParam()
	ins, err := Buy(p, 12345, 67890)
	require.NoError(t, err)

	assert.Equal(t, consts.PumpFunAmmProgram, ins.ProgramID)

	// 8 字节判别符 + 两个 u64 little-endian
	require.Len(t, ins.Data, 8+8+8)
	assert.Equal(t, buyDiscriminator[:], ins.Data[:8])
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(ins.Data[8:16]))
	assert.Equal(t, uint64(67890), binary.LittleEndian.Uint64(ins.Data[16:24]))
}

func TestSell_Payload(t *testing.T) {
	ins, err := Sell(swapParam(), 999, 1)
	require.NoError(t, err)

	require.Len(t, ins.Data, 24)
	assert.Equal(t, sellDiscriminator[:], ins.Data[:8])
	assert.Equal(t, uint64(999), binary.LittleEndian.Uint64(ins.Data[8:16]))
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(ins.Data[16:24]))
}

func TestSwapInstruction_UserSigns(t *testing.T) {
	p := swapParam()
	ins, err := Buy(p, 1, 1)
	require.NoError(t, err)

	// 唯一的签名账户是发起钱包
	var signers []types.AccountMeta
	for _, meta := range ins.Accounts {
		if meta.IsSigner {
			signers = append(signers, meta)
		}
	}
	require.Len(t, signers, 1)
	assert.Equal(t, p.User, signers[0].PubKey)
}

func TestComputeBudget_Defaults(t *testing.T) {
	ins := ComputeBudget(0, 0)
	require.Len(t, ins, 2)
	for _, i := range ins {
		assert.Equal(t, consts.ComputeBudgetProgram, i.ProgramID)
	}
}

func TestCreateUserAta(t *testing.T) {
	owner := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey

	ins, ata, err := CreateUserAta(owner, owner, mint)
	require.NoError(t, err)
	assert.Equal(t, consts.AssociatedTokenProgram, ins.ProgramID)
	assert.NotEqual(t, owner, ata)

	// 同一 (owner, mint) 的派生结果稳定
	_, again, err := CreateUserAta(owner, owner, mint)
	require.NoError(t, err)
	assert.Equal(t, ata, again)
}
