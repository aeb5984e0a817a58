package consts

import "github.com/blocto/solana-go-sdk/common"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	WSOLMintStr = "So11111111111111111111111111111111111111112"

	// DEX: PumpFun AMM（volume 市场的目标程序）
	PumpFunAmmProgramStr        = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
	PumpFunAmmGlobalConfigStr   = "ADyA8hdefvWN2dbGGWFotbzWxrAvLW83WG6QCVXvJKqw"
	PumpFunAmmEventAuthorityStr = "GS4CU59F31iL7aR2Q8zVS8DRrcRnXX1yjQ66TqNVQnaR"
	PumpFunAmmFeeRecipientStr   = "62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV"
)

var (
	// Programs
	SystemProgram          = common.PublicKeyFromString(SystemProgramStr)
	TokenProgram           = common.PublicKeyFromString(TokenProgramStr)
	AssociatedTokenProgram = common.PublicKeyFromString(AssociatedTokenProgramStr)
	ComputeBudgetProgram   = common.PublicKeyFromString(ComputeBudgetProgramStr)

	WSOLMint = common.PublicKeyFromString(WSOLMintStr)

	// DEX Program
	PumpFunAmmProgram        = common.PublicKeyFromString(PumpFunAmmProgramStr)
	PumpFunAmmGlobalConfig   = common.PublicKeyFromString(PumpFunAmmGlobalConfigStr)
	PumpFunAmmEventAuthority = common.PublicKeyFromString(PumpFunAmmEventAuthorityStr)
	PumpFunAmmFeeRecipient   = common.PublicKeyFromString(PumpFunAmmFeeRecipientStr)
)

// JitoTipAccounts Jito block engine 公布的固定 tip 账户，提交 bundle 时随机选一个
var JitoTipAccounts = []string{
	"96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5",
	"HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe",
	"Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY",
	"ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49",
	"DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh",
	"ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt",
	"DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL",
	"3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT",
}
