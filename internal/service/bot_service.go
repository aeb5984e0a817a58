package service

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/zeromicro/go-zero/core/threading"

	"volume-bot-sol/internal/config"
	"volume-bot-sol/internal/logic/handler"
	"volume-bot-sol/internal/pkg/logger"
)

// BotService telegram 长轮询服务，实现 go-zero service.Service。
// 每个 update 丢给独立 goroutine 处理；同一聊天的串行由会话锁保证。
type BotService struct {
	bot      *tgbotapi.BotAPI
	handler  *handler.Handler
	timeout  int
	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
}

func NewBotService(cfg *config.TelegramConfig, bot *tgbotapi.BotAPI, h *handler.Handler) *BotService {
	timeout := cfg.PollTimeoutSec
	if timeout <= 0 {
		timeout = 30
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BotService{
		bot:      bot,
		handler:  h,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}
}

func (s *BotService) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = s.timeout
	updates := s.bot.GetUpdatesChan(u)
	logger.Infof("[bot] start polling as @%s", s.bot.Self.UserName)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				logger.Infof("[bot] updates channel closed")
				close(s.stopChan)
				return
			}
			threading.GoSafe(func() {
				s.handler.HandleUpdate(s.ctx, update)
			})
		case <-s.ctx.Done():
			close(s.stopChan)
			return
		}
	}
}

func (s *BotService) Stop() {
	s.cancel()
	s.bot.StopReceivingUpdates()
	<-s.stopChan
	logger.Infof("[bot] stopped")
}
