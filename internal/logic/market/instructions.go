package market

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"

	"volume-bot-sol/internal/consts"
)

// anchor 指令判别符：sha256("global:<name>")[:8]，与具体部署无关
var (
	buyDiscriminator  = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	sellDiscriminator = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// buyArgs / sellArgs 指令 payload，borsh 编码后接在判别符后面
type buyArgs struct {
	BaseAmountOut    uint64 // 期望买入的 base 数量
	MaxQuoteAmountIn uint64 // 愿意支付的 quote 上限（滑点保护）
}

type sellArgs struct {
	BaseAmountIn      uint64 // 卖出的 base 数量
	MinQuoteAmountOut uint64 // 至少收回的 quote（滑点保护）
}

// SwapParam 一次 swap 的市场与用户标识
type SwapParam struct {
	Market   common.PublicKey // 池子地址（用户输入的 MARKET_ID）
	BaseMint common.PublicKey // 交易代币 mint
	User     common.PublicKey // 发起钱包，必须签名
}

// Buy 构造 PumpFun AMM 买入指令
func Buy(p SwapParam, baseAmountOut, maxQuoteIn uint64) (types.Instruction, error) {
	data, err := encodeArgs(buyDiscriminator, buyArgs{
		BaseAmountOut:    baseAmountOut,
		MaxQuoteAmountIn: maxQuoteIn,
	})
	if err != nil {
		return types.Instruction{}, err
	}
	return swapInstruction(p, data)
}

// Sell 构造 PumpFun AMM 卖出指令
func Sell(p SwapParam, baseAmountIn, minQuoteOut uint64) (types.Instruction, error) {
	data, err := encodeArgs(sellDiscriminator, sellArgs{
		BaseAmountIn:      baseAmountIn,
		MinQuoteAmountOut: minQuoteOut,
	})
	if err != nil {
		return types.Instruction{}, err
	}
	return swapInstruction(p, data)
}

func encodeArgs(disc [8]byte, args interface{}) ([]byte, error) {
	payload, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("borsh encode swap args: %w", err)
	}
	return append(disc[:], payload...), nil
}

// swapInstruction 拼装账户表。买卖共用同一套账户布局，仅 payload 不同。
func swapInstruction(p SwapParam, data []byte) (types.Instruction, error) {
	userBaseAta, _, err := common.FindAssociatedTokenAddress(p.User, p.BaseMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive user base ata: %w", err)
	}
	userQuoteAta, _, err := common.FindAssociatedTokenAddress(p.User, consts.WSOLMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive user quote ata: %w", err)
	}
	poolBaseAta, _, err := common.FindAssociatedTokenAddress(p.Market, p.BaseMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive pool base ata: %w", err)
	}
	poolQuoteAta, _, err := common.FindAssociatedTokenAddress(p.Market, consts.WSOLMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive pool quote ata: %w", err)
	}
	feeAta, _, err := common.FindAssociatedTokenAddress(consts.PumpFunAmmFeeRecipient, consts.WSOLMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive fee recipient ata: %w", err)
	}

	return types.Instruction{
		ProgramID: consts.PumpFunAmmProgram,
		Accounts: []types.AccountMeta{
			{PubKey: p.Market, IsSigner: false, IsWritable: true},
			{PubKey: p.User, IsSigner: true, IsWritable: true},
			{PubKey: consts.PumpFunAmmGlobalConfig, IsSigner: false, IsWritable: false},
			{PubKey: p.BaseMint, IsSigner: false, IsWritable: false},
			{PubKey: consts.WSOLMint, IsSigner: false, IsWritable: false},
			{PubKey: userBaseAta, IsSigner: false, IsWritable: true},
			{PubKey: userQuoteAta, IsSigner: false, IsWritable: true},
			{PubKey: poolBaseAta, IsSigner: false, IsWritable: true},
			{PubKey: poolQuoteAta, IsSigner: false, IsWritable: true},
			{PubKey: consts.PumpFunAmmFeeRecipient, IsSigner: false, IsWritable: false},
			{PubKey: feeAta, IsSigner: false, IsWritable: true},
			{PubKey: consts.TokenProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.SystemProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.AssociatedTokenProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.PumpFunAmmEventAuthority, IsSigner: false, IsWritable: false},
			{PubKey: consts.PumpFunAmmProgram, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}

// ComputeBudget 每笔 swap 交易前置的 compute budget 指令
func ComputeBudget(cuLimit uint32, cuPriceMicro uint64) []types.Instruction {
	if cuLimit == 0 {
		cuLimit = 120_000
	}
	if cuPriceMicro == 0 {
		cuPriceMicro = 1_000
	}
	return []types.Instruction{
		compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{Units: cuLimit}),
		compute_budget.SetComputeUnitPrice(compute_budget.SetComputeUnitPriceParam{MicroLamports: cuPriceMicro}),
	}
}

// CreateUserAta 按需创建用户的 base ATA（幂等版本，已存在时为 no-op）
func CreateUserAta(funder, owner, mint common.PublicKey) (types.Instruction, common.PublicKey, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return types.Instruction{}, common.PublicKey{}, fmt.Errorf("derive ata: %w", err)
	}
	ins := associated_token_account.CreateIdempotent(associated_token_account.CreateIdempotentParam{
		Funder:                 funder,
		Owner:                  owner,
		Mint:                   mint,
		AssociatedTokenAccount: ata,
	})
	return ins, ata, nil
}
