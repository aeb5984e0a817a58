package handler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"volume-bot-sol/internal/bundle"
	"volume-bot-sol/internal/jito"
	"volume-bot-sol/internal/logic/session"
	"volume-bot-sol/internal/logic/trade"
	"volume-bot-sol/internal/pkg/logger"
	"volume-bot-sol/internal/simulator"
	"volume-bot-sol/internal/wallet"
)

// 菜单回调值
const (
	cbCreate     = "menu:create"
	cbUse        = "menu:use"
	cbBalances   = "menu:balances"
	cbDistribute = "menu:distribute"
	cbVolume     = "menu:volume"
	cbCollect    = "menu:collect"
	cbSimulate   = "menu:simulate"
)

// Handler 聊天入口。每个 update 的处理以 panic-recover 兜底，
// 任何失败都只影响当前请求的回复。
type Handler struct {
	bot       *tgbotapi.BotAPI
	store     wallet.Store
	pipelines *trade.Pipelines
	sessions  *session.Manager
	funding   types.Account
	taxRate   float64
}

func New(bot *tgbotapi.BotAPI, store wallet.Store, pipelines *trade.Pipelines, funding types.Account, taxRate float64) *Handler {
	return &Handler{
		bot:       bot,
		store:     store,
		pipelines: pipelines,
		sessions:  session.NewManager(),
		funding:   funding,
		taxRate:   taxRate,
	}
}

// HandleUpdate 处理单个 telegram update。同一聊天串行，不同聊天并发。
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	chatID, userID := updateIDs(update)
	if chatID == 0 {
		return
	}

	sess := h.sessions.Get(chatID)
	sess.Run.Lock()
	defer sess.Run.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("handler panic: %+v\nstack: %s", r, debug.Stack())
			h.reply(chatID, "Failed: internal error, see logs")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, chatID, userID, sess, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		h.handleCommand(chatID, update.Message)
	case update.Message != nil:
		h.handlePrompt(ctx, chatID, userID, sess, update.Message.Text)
	}
}

// updateIDs 提取聊天与发送者 id。频道消息 From 为空，没有可归属的
// 用户钱包，直接丢弃（返回 0,0）。
func updateIDs(update tgbotapi.Update) (chatID, userID int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.Chat.ID, update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.From.ID
	}
	return 0, 0
}

func (h *Handler) handleCommand(chatID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "menu":
		h.sendMenu(chatID)
	default:
		h.reply(chatID, "Unknown command, use /start")
	}
}

func (h *Handler) sendMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Select an action:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 Create wallets", cbCreate),
			tgbotapi.NewInlineKeyboardButtonData("📂 Use existing", cbUse),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Balances", cbBalances),
			tgbotapi.NewInlineKeyboardButtonData("📤 Distribute", cbDistribute),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Volume", cbVolume),
			tgbotapi.NewInlineKeyboardButtonData("📥 Collect", cbCollect),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Simulate", cbSimulate),
		),
	)
	h.send(msg)
}

func (h *Handler) handleCallback(ctx context.Context, chatID, userID int64, sess *session.Session, q *tgbotapi.CallbackQuery) {
	// 先 ack，避免按钮一直转圈
	if _, err := h.bot.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		logger.Warnf("callback ack failed: %v", err)
	}

	switch q.Data {
	case cbCreate:
		sess.SetActive(session.PromptCreateWallets)
		h.reply(chatID, "How many wallets? Send: WALLET_COUNT")
	case cbUse:
		h.useExisting(ctx, chatID, userID)
	case cbBalances:
		h.withWallets(ctx, chatID, userID, func(wallets []types.Account) (string, error) {
			rep, err := h.pipelines.Balances(ctx, wallets)
			if err != nil {
				return "", err
			}
			return rep.Render(), nil
		})
	case cbDistribute:
		sess.SetActive(session.PromptDistribute)
		h.reply(chatID, "Send: SOL_AMOUNT JITO_TIP STEPS")
	case cbVolume:
		sess.SetActive(session.PromptVolume)
		h.reply(chatID, "Send: MARKET_ID CYCLES DELAY_SEC JITO_TIP")
	case cbCollect:
		sess.SetActive(session.PromptCollect)
		h.reply(chatID, "Send: JITO_TIP")
	case cbSimulate:
		sess.SetActive(session.PromptSimulate)
		h.reply(chatID, "Send: SOL_PRICE JITO_TIP EXECUTIONS W1 W2 ...")
	default:
		h.reply(chatID, "Unknown action")
	}
}

// handlePrompt 按激活的提示解析自由文本并执行对应流水线
func (h *Handler) handlePrompt(ctx context.Context, chatID, userID int64, sess *session.Session, text string) {
	prompt := sess.Active()
	if prompt == session.PromptNone {
		h.sendMenu(chatID)
		return
	}
	sess.Clear()

	switch prompt {
	case session.PromptCreateWallets:
		h.createWallets(ctx, chatID, userID, text)

	case session.PromptDistribute:
		args, err := ParseDistributeArgs(text)
		if err != nil {
			h.replyInvalid(chatID, err)
			return
		}
		h.withWallets(ctx, chatID, userID, func(wallets []types.Account) (string, error) {
			rep, err := h.pipelines.Distribute(ctx, userID, h.funding, wallets, args.AmountSol, args.TipSol, args.Steps)
			if err != nil {
				return "", err
			}
			return rep.Render(), nil
		})

	case session.PromptVolume:
		args, err := ParseVolumeArgs(text)
		if err != nil {
			h.replyInvalid(chatID, err)
			return
		}
		h.withWallets(ctx, chatID, userID, func(wallets []types.Account) (string, error) {
			rep, err := h.pipelines.Volume(ctx, userID, h.funding, wallets, args.MarketID, args.Cycles, args.Delay, args.TipSol)
			if err != nil {
				return "", err
			}
			return rep.Render(), nil
		})

	case session.PromptCollect:
		tip, err := ParseCollectArgs(text)
		if err != nil {
			h.replyInvalid(chatID, err)
			return
		}
		h.withWallets(ctx, chatID, userID, func(wallets []types.Account) (string, error) {
			rep, err := h.pipelines.Collect(ctx, userID, h.funding, wallets, tip)
			if err != nil {
				return "", err
			}
			return rep.Render(), nil
		})

	case session.PromptSimulate:
		in, err := ParseSimulateArgs(text)
		if err != nil {
			h.replyInvalid(chatID, err)
			return
		}
		result := simulator.Simulate(in, h.taxRate)
		h.reply(chatID, simulator.RenderReport(in, result))
	}
}

func (h *Handler) createWallets(ctx context.Context, chatID, userID int64, text string) {
	count, err := ParseWalletCount(text)
	if err != nil {
		h.replyInvalid(chatID, err)
		return
	}

	wallets := make([]types.Account, 0, count)
	for i := 0; i < count; i++ {
		wallets = append(wallets, types.NewAccount())
	}
	if err := h.store.Put(ctx, userID, wallets); err != nil {
		h.replyError(chatID, fmt.Errorf("store wallets: %w", err))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Created %d wallets:\n", count)
	for i, w := range wallets {
		fmt.Fprintf(&b, "W%d: %s\n", i+1, w.PublicKey.ToBase58())
	}
	h.reply(chatID, b.String())
}

func (h *Handler) useExisting(ctx context.Context, chatID, userID int64) {
	wallets, err := h.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, wallet.ErrNoKeypairs) {
			h.reply(chatID, "No keypairs found. Use 🆕 Create wallets first.")
			return
		}
		h.replyError(chatID, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Loaded %d wallets:\n", len(wallets))
	for i, w := range wallets {
		fmt.Fprintf(&b, "W%d: %s\n", i+1, w.PublicKey.ToBase58())
	}
	h.reply(chatID, b.String())
}

// withWallets 解析用户钱包后执行操作，统一处理缺钱包与失败回复
func (h *Handler) withWallets(ctx context.Context, chatID, userID int64, run func(wallets []types.Account) (string, error)) {
	wallets, err := h.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, wallet.ErrNoKeypairs) {
			h.reply(chatID, "No keypairs found. Use 🆕 Create wallets first.")
			return
		}
		h.replyError(chatID, err)
		return
	}

	text, err := run(wallets)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, text)
}

func (h *Handler) replyInvalid(chatID int64, err error) {
	h.reply(chatID, "Invalid input: "+err.Error())
}

// replyError 所有失败都以 "Failed: ..." 回给用户，错误文本原样透传：
// 超限错误自带字节数与调参提示，relay 拒绝自带 relay 原话。
func (h *Handler) replyError(chatID int64, err error) {
	if errors.Is(err, bundle.ErrTxTooLarge) || errors.Is(err, jito.ErrRelayRejected) {
		logger.Warnf("request failed: %v", err)
	}
	h.reply(chatID, "Failed: "+err.Error())
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		logger.Errorf("send message failed: chat=%d err=%v", msg.ChatID, err)
	}
}
