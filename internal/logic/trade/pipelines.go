package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"volume-bot-sol/internal/audit"
	"volume-bot-sol/internal/bundle"
	"volume-bot-sol/internal/config"
	"volume-bot-sol/internal/consts"
	"volume-bot-sol/internal/logic/market"
	"volume-bot-sol/internal/pkg/logger"
	itypes "volume-bot-sol/internal/types"
)

// ChainReader 每次批处理前同步读链所需的最小 RPC 面
type ChainReader interface {
	GetBalance(ctx context.Context, addr string) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	GetAccountInfo(ctx context.Context, addr string) (client.AccountInfo, error)
}

// BundleSender bundle 提交面，由 jito client 实现
type BundleSender interface {
	SendBundle(ctx context.Context, txs []types.Transaction) (string, error)
	PickTipAccount() common.PublicKey
}

// Pipelines 聚合全部交易流水线。钱包集合永远显式传参，
// 不同用户的请求之间不共享可变状态。
type Pipelines struct {
	chain      ChainReader
	relay      BundleSender
	bundleConf config.BundleConfig
	rpcConf    config.RpcConfig
	audit      *audit.Publisher
}

func NewPipelines(chain ChainReader, relay BundleSender, bundleConf config.BundleConfig, rpcConf config.RpcConfig, auditPub *audit.Publisher) *Pipelines {
	return &Pipelines{
		chain:      chain,
		relay:      relay,
		bundleConf: bundleConf,
		rpcConf:    rpcConf,
		audit:      auditPub,
	}
}

// submit 统一的提交出口：逐个发 bundle、记审计、汇报结果。
// 中途失败时已落地的 bundle id 会出现在审计事件里，便于对账。
func (p *Pipelines) submit(ctx context.Context, userID int64, action string, bundles [][]types.Transaction, lamports uint64, rep *Report) error {
	var ids []string
	var txCount int
	for _, txs := range bundles {
		bundleID, err := p.relay.SendBundle(ctx, txs)
		if err != nil {
			p.audit.Publish(ctx, audit.Event{
				UserID: userID, Action: action, BundleID: strings.Join(ids, ","),
				TxCount: txCount + len(txs), Lamports: lamports, Error: err.Error(),
			})
			return err
		}
		ids = append(ids, bundleID)
		txCount += len(txs)
	}
	p.audit.Publish(ctx, audit.Event{
		UserID: userID, Action: action, BundleID: strings.Join(ids, ","), TxCount: txCount, Lamports: lamports,
	})
	rep.BundleIDs = append(rep.BundleIDs, ids...)
	rep.TxCount += txCount
	rep.Lamports += lamports
	return nil
}

// rpcCtx 给单次链上读加超时，超时时长来自 rpc.timeout_ms
func (p *Pipelines) rpcCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.rpcConf.Timeout())
}

// Distribute 从主资金钱包向用户的每个钱包分发 SOL。
// totalSol 平均分给所有钱包，每个钱包拆成 steps 笔转账，
// 超出 relay 单 bundle 上限时按序拆成多个 bundle 提交。
func (p *Pipelines) Distribute(ctx context.Context, userID int64, funding types.Account, wallets []types.Account, totalSol, tipSol float64, steps int) (*Report, error) {
	if len(wallets) == 0 {
		return nil, errors.New("no wallets to distribute to")
	}

	perWallet := itypes.SolToLamports(totalSol) / uint64(len(wallets))
	perStep := perWallet / uint64(steps)
	if perStep == 0 {
		return nil, fmt.Errorf("amount too small: %.6f SOL across %d wallets x %d steps", totalSol, len(wallets), steps)
	}

	ins := make([]types.Instruction, 0, len(wallets)*steps)
	for _, w := range wallets {
		for s := 0; s < steps; s++ {
			ins = append(ins, system.Transfer(system.TransferParam{
				From:   funding.PublicKey,
				To:     w.PublicKey,
				Amount: perStep,
			}))
		}
	}

	blockhash, err := p.fetchBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tipLamports := itypes.SolToLamports(tipSol)
	bundles, err := bundle.BuildBundles(ins, bundle.BuildParam{
		Payer:       funding,
		Blockhash:   blockhash,
		ChunkSize:   p.bundleConf.TransferChunk(),
		TipAccount:  p.relay.PickTipAccount(),
		TipLamports: tipLamports,
	})
	if err != nil {
		return nil, err
	}

	// 每个 bundle 的末笔交易各带一份 tip
	moved := perStep*uint64(steps)*uint64(len(wallets)) + tipLamports*uint64(len(bundles))
	rep := &Report{Action: "Distribute"}
	rep.addLine("Sent %.6f SOL to each of %d wallets in %d steps",
		itypes.LamportsToSol(perStep*uint64(steps)), len(wallets), steps)
	if err := p.submit(ctx, userID, "distribute", bundles, moved, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// fetchBlockhash 带超时地拉取最近 blockhash
func (p *Pipelines) fetchBlockhash(ctx context.Context) (string, error) {
	rctx, cancel := p.rpcCtx(ctx)
	defer cancel()
	value, err := p.chain.GetLatestBlockhash(rctx)
	if err != nil {
		return "", fmt.Errorf("fetch blockhash: %w", err)
	}
	return value.Blockhash, nil
}

// fetchBalance 带超时地查询单个地址余额
func (p *Pipelines) fetchBalance(ctx context.Context, addr string) (uint64, error) {
	rctx, cancel := p.rpcCtx(ctx)
	defer cancel()
	balance, err := p.chain.GetBalance(rctx, addr)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", addr, err)
	}
	return balance, nil
}

// Volume 对指定市场执行 cycles 轮买卖循环，每轮构建并提交一组 bundle。
// 轮与轮之间固定 sleep delay，sleep 期间不可中断（与原行为一致）。
func (p *Pipelines) Volume(ctx context.Context, userID int64, funding types.Account, wallets []types.Account, marketID string, cycles int, delay time.Duration, tipSol float64) (*Report, error) {
	if len(wallets) == 0 {
		return nil, errors.New("no wallets configured")
	}
	marketPub, err := parsePubkey(marketID)
	if err != nil {
		return nil, fmt.Errorf("invalid market id: %w", err)
	}

	baseMint, err := p.resolveBaseMint(ctx, marketID)
	if err != nil {
		return nil, err
	}

	tipLamports := itypes.SolToLamports(tipSol)
	cuPrefix := market.ComputeBudget(p.rpcConf.CuLimit, p.rpcConf.CuPriceMicro)

	rep := &Report{Action: "Volume"}
	for cycle := 0; cycle < cycles; cycle++ {
		ins, spent, err := p.buildCycleInstructions(ctx, marketPub, baseMint, wallets)
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}

		blockhash, err := p.fetchBlockhash(ctx)
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}

		bundles, err := bundle.BuildBundles(ins, bundle.BuildParam{
			Payer:        funding,
			ExtraSigners: wallets,
			Blockhash:    blockhash,
			ChunkSize:    p.bundleConf.SwapChunk(),
			ChunkPrefix:  cuPrefix,
			TipAccount:   p.relay.PickTipAccount(),
			TipLamports:  tipLamports,
		})
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}

		if err := p.submit(ctx, userID, "volume", bundles, spent+tipLamports*uint64(len(bundles)), rep); err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}
		logger.Infof("[volume] user=%d cycle=%d/%d market=%s bundles=%d", userID, cycle+1, cycles, marketID, len(bundles))

		if cycle < cycles-1 {
			time.Sleep(delay)
		}
	}

	rep.addLine("Ran %d cycles on market %s with %d wallets", cycles, marketID, len(wallets))
	return rep, nil
}

// buildCycleInstructions 每轮为每个钱包生成一对买/卖指令，
// 买入预算为该钱包当前余额的 70%（保留手续费与租金空间）。
func (p *Pipelines) buildCycleInstructions(ctx context.Context, marketPub, baseMint common.PublicKey, wallets []types.Account) ([]types.Instruction, uint64, error) {
	var ins []types.Instruction
	var spent uint64
	for _, w := range wallets {
		balance, err := p.fetchBalance(ctx, w.PublicKey.ToBase58())
		if err != nil {
			return nil, 0, err
		}
		if balance <= consts.RentExemptLamports {
			continue // 空钱包本轮跳过
		}
		budget := (balance - consts.RentExemptLamports) * 70 / 100
		if budget == 0 {
			continue
		}

		// ATA 创建在前，买卖在后；bundle 按序落地，跨交易的先建后用是安全的
		ataIns, _, err := market.CreateUserAta(w.PublicKey, w.PublicKey, baseMint)
		if err != nil {
			return nil, 0, err
		}
		swap := market.SwapParam{Market: marketPub, BaseMint: baseMint, User: w.PublicKey}
		buy, err := market.Buy(swap, 1, budget)
		if err != nil {
			return nil, 0, err
		}
		sell, err := market.Sell(swap, 1, 0)
		if err != nil {
			return nil, 0, err
		}
		ins = append(ins, ataIns, buy, sell)
		spent += budget
	}
	if len(ins) == 0 {
		return nil, 0, errors.New("all wallets are empty, distribute SOL first")
	}
	return ins, spent, nil
}

// resolveBaseMint 读取池子账户，按固定偏移取 base mint
// （8 字节判别符 + 1 bump + 2 index + 32 creator，随后 32 字节即 base mint）
func (p *Pipelines) resolveBaseMint(ctx context.Context, marketID string) (common.PublicKey, error) {
	rctx, cancel := p.rpcCtx(ctx)
	defer cancel()
	info, err := p.chain.GetAccountInfo(rctx, marketID)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("fetch market account: %w", err)
	}
	const baseMintOffset = 8 + 1 + 2 + 32
	if len(info.Data) < baseMintOffset+32 {
		return common.PublicKey{}, fmt.Errorf("market account data too short: %d bytes", len(info.Data))
	}
	return common.PublicKeyFromBytes(info.Data[baseMintOffset : baseMintOffset+32]), nil
}

// Collect 将每个钱包的余额（保留租金豁免部分）归集回主资金钱包
func (p *Pipelines) Collect(ctx context.Context, userID int64, funding types.Account, wallets []types.Account, tipSol float64) (*Report, error) {
	if len(wallets) == 0 {
		return nil, errors.New("no wallets to collect from")
	}

	var ins []types.Instruction
	var moved uint64
	for _, w := range wallets {
		balance, err := p.fetchBalance(ctx, w.PublicKey.ToBase58())
		if err != nil {
			return nil, err
		}
		if balance <= consts.RentExemptLamports {
			continue
		}
		amount := balance - consts.RentExemptLamports
		ins = append(ins, system.Transfer(system.TransferParam{
			From:   w.PublicKey,
			To:     funding.PublicKey,
			Amount: amount,
		}))
		moved += amount
	}
	if len(ins) == 0 {
		return nil, errors.New("nothing to collect, all wallets are at the rent floor")
	}

	blockhash, err := p.fetchBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tipLamports := itypes.SolToLamports(tipSol)
	bundles, err := bundle.BuildBundles(ins, bundle.BuildParam{
		Payer:        funding,
		ExtraSigners: wallets,
		Blockhash:    blockhash,
		ChunkSize:    p.bundleConf.TransferChunk(),
		TipAccount:   p.relay.PickTipAccount(),
		TipLamports:  tipLamports,
	})
	if err != nil {
		return nil, err
	}

	rep := &Report{Action: "Collect"}
	rep.addLine("Collected %.6f SOL from %d wallets", itypes.LamportsToSol(moved), len(ins))
	if err := p.submit(ctx, userID, "collect", bundles, moved+tipLamports*uint64(len(bundles)), rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Balances 只读余额报告，不发交易
func (p *Pipelines) Balances(ctx context.Context, wallets []types.Account) (*Report, error) {
	rep := &Report{Action: "Balances"}
	var total uint64
	for i, w := range wallets {
		balance, err := p.fetchBalance(ctx, w.PublicKey.ToBase58())
		if err != nil {
			return nil, err
		}
		total += balance
		rep.addLine("W%d %s: %.6f SOL", i+1, w.PublicKey.ToBase58(), itypes.LamportsToSol(balance))
	}
	rep.addLine("Total: %.6f SOL", itypes.LamportsToSol(total))
	return rep, nil
}

func parsePubkey(s string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, err
	}
	if len(raw) != 32 {
		return common.PublicKey{}, fmt.Errorf("pubkey length %d, want 32", len(raw))
	}
	return common.PublicKeyFromString(s), nil
}
