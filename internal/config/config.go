package config

import (
	"time"

	"volume-bot-sol/internal/pkg/logger"
	"volume-bot-sol/internal/pkg/mq"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// TelegramConfig Telegram bot 接入配置
type TelegramConfig struct {
	Token          string `yaml:"token"`            // BotFather 下发的 token
	PollTimeoutSec int    `yaml:"poll_timeout_sec"` // 长轮询超时（秒），默认 30
	Debug          bool   `yaml:"debug"`            // 是否打印 telegram api 调试日志
}

// RpcConfig Solana RPC 节点配置
type RpcConfig struct {
	Endpoint     string `yaml:"endpoint"`       // RPC 地址，例如 https://api.mainnet-beta.solana.com
	TimeoutMs    int    `yaml:"timeout_ms"`     // 单次 RPC 调用超时（毫秒），默认 10000
	FundingKey   string `yaml:"funding_key"`    // 主资金钱包私钥（base58），distribute/collect 的对端
	CuLimit      uint32 `yaml:"cu_limit"`       // 每笔 swap 交易的 compute unit 上限，默认 120000
	CuPriceMicro uint64 `yaml:"cu_price_micro"` // compute unit 单价（micro lamports），默认 1000
}

// Timeout 单次 RPC 调用超时
func (c *RpcConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// JitoConfig bundle 提交配置
type JitoConfig struct {
	RelaysFile  string   `yaml:"relays_file"`  // relay 端点列表文件（yaml），默认 etc/relays.yaml
	TipAccounts []string `yaml:"tip_accounts"` // tip 账户列表，为空时使用内置默认列表
}

// BundleConfig 分块参数。2/6/10 这些历史取值没有协议依据，全部可配
type BundleConfig struct {
	SwapChunkSize     int `yaml:"swap_chunk_size"`     // swap 指令每笔交易条数，默认 2
	TransferChunkSize int `yaml:"transfer_chunk_size"` // 转账指令每笔交易条数，默认 6
	MaxChunkSize      int `yaml:"max_chunk_size"`      // 分块上限，默认 10
}

func (c *BundleConfig) SwapChunk() int {
	return normChunk(c.SwapChunkSize, 2, c.MaxChunk())
}

func (c *BundleConfig) TransferChunk() int {
	return normChunk(c.TransferChunkSize, 6, c.MaxChunk())
}

func (c *BundleConfig) MaxChunk() int {
	if c.MaxChunkSize <= 0 {
		return 10
	}
	return c.MaxChunkSize
}

func normChunk(v, def, ceil int) int {
	if v <= 0 {
		v = def
	}
	if v > ceil {
		return ceil
	}
	return v
}

// WalletStoreConfig 钱包存储配置
type WalletStoreConfig struct {
	Backend   string `yaml:"backend"`    // "file" 或 "redis"，默认 file
	Dir       string `yaml:"dir"`        // file 后端的目录，默认 data/wallets
	RedisAddr string `yaml:"redis_addr"` // redis 后端地址
}

// SimulatorConfig 量化模拟配置
type SimulatorConfig struct {
	TaxRateBps int `yaml:"tax_rate_bps"` // 每轮税率（基点），默认 50 = 0.5%
}

func (c *SimulatorConfig) TaxRate() float64 {
	bps := c.TaxRateBps
	if bps <= 0 {
		bps = 50
	}
	return float64(bps) / 10000
}

// KafkaAuditConfig bundle 提交审计事件的 Kafka 配置，brokers 为空时关闭审计
type KafkaAuditConfig struct {
	Brokers    string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	Topic      string `yaml:"topic"`      // 审计事件 topic
	Partitions int    `yaml:"partitions"` // topic 分区数
	BatchSize  int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs   int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）
	TimeoutMs  int    `yaml:"timeout_ms"` // 单条消息发送超时（毫秒），默认 5000
}

func (c *KafkaAuditConfig) Enabled() bool {
	return c.Brokers != "" && c.Topic != ""
}

func (c *KafkaAuditConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []struct {
			Topic      string
			Partitions int
		}{
			{Topic: c.Topic, Partitions: c.Partitions},
		},
	}
}

// BotConfig 是主配置结构体，驱动整个 bot 服务
type BotConfig struct {
	LogConf       LogConfig         `yaml:"logger"`       // 日志配置
	TelegramConf  TelegramConfig    `yaml:"telegram"`     // Telegram 接入
	RpcConf       RpcConfig         `yaml:"rpc"`          // Solana RPC
	JitoConf      JitoConfig        `yaml:"jito"`         // bundle 提交
	BundleConf    BundleConfig      `yaml:"bundle"`       // 分块参数
	WalletConf    WalletStoreConfig `yaml:"wallet_store"` // 钱包存储
	SimulatorConf SimulatorConfig   `yaml:"simulator"`    // 模拟器
	AuditConf     KafkaAuditConfig  `yaml:"kafka_audit"`  // 审计事件
}
