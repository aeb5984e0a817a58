package svc

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"volume-bot-sol/internal/audit"
	"volume-bot-sol/internal/config"
	"volume-bot-sol/internal/jito"
	"volume-bot-sol/internal/logic/handler"
	"volume-bot-sol/internal/logic/trade"
	"volume-bot-sol/internal/pkg/logger"
	"volume-bot-sol/internal/wallet"
)

// BotServiceContext 聚合 bot 的全部外部资源
type BotServiceContext struct {
	Config    config.BotConfig
	Bot       *tgbotapi.BotAPI
	RpcClient *client.Client
	Jito      *jito.Client
	Wallets   wallet.Store
	Audit     *audit.Publisher
	Funding   types.Account
	Handler   *handler.Handler
}

// NewBotServiceContext 按配置初始化资源，任何一项失败都直接返回错误
func NewBotServiceContext(c config.BotConfig) (*BotServiceContext, error) {
	bot, err := tgbotapi.NewBotAPI(c.TelegramConf.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}
	bot.Debug = c.TelegramConf.Debug

	rpcClient := client.NewClient(c.RpcConf.Endpoint)

	funding, err := types.AccountFromBase58(c.RpcConf.FundingKey)
	if err != nil {
		return nil, fmt.Errorf("parse funding key: %w", err)
	}

	relaysFile := c.JitoConf.RelaysFile
	if relaysFile == "" {
		relaysFile = "etc/relays.yaml"
	}
	jitoClient, err := jito.NewClientFromFile(relaysFile, c.JitoConf.TipAccounts)
	if err != nil {
		return nil, fmt.Errorf("jito client init failed: %w", err)
	}

	store, err := wallet.NewStore(c.WalletConf.Backend, c.WalletConf.Dir, c.WalletConf.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("wallet store init failed: %w", err)
	}

	auditPub, err := audit.NewPublisher(c.AuditConf)
	if err != nil {
		// 审计不可用不阻断服务，记日志后降级运行
		logger.Errorf("audit publisher init failed, auditing disabled: %v", err)
		auditPub = nil
	}

	pipelines := trade.NewPipelines(rpcClient, jitoClient, c.BundleConf, c.RpcConf, auditPub)
	h := handler.New(bot, store, pipelines, funding, c.SimulatorConf.TaxRate())

	logger.Infof("bot 服务上下文初始化完成: funding=%s", funding.PublicKey.ToBase58())
	return &BotServiceContext{
		Config:    c,
		Bot:       bot,
		RpcClient: rpcClient,
		Jito:      jitoClient,
		Wallets:   store,
		Audit:     auditPub,
		Funding:   funding,
		Handler:   h,
	}, nil
}

// Close 关闭服务上下文中的资源
func (ctx *BotServiceContext) Close() {
	ctx.Audit.Close()
}
