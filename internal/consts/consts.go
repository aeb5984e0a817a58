package consts

const (
	// PacketDataSize 单笔交易序列化后的硬性上限（字节），超出即无法上链
	PacketDataSize = 1232

	// MaxBundleTxCount Jito bundle 允许的最大交易数
	MaxBundleTxCount = 5

	// RentExemptLamports 归集时为每个钱包保留的租金豁免余额
	RentExemptLamports = 890_880
)
