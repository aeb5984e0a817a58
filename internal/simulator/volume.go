package simulator

import (
	"fmt"
	"strings"
)

// Input 模拟输入，全部来自用户一行提示输入：
// SOL_PRICE JITO_TIP EXECUTIONS W1 W2 ...
type Input struct {
	SolPrice float64   // SOL 价格（USD），仅用于报告换算
	Tip      float64   // 每轮 tip 成本（SOL）
	Rounds   int       // 模拟轮数
	Balances []float64 // 每个钱包初始余额（SOL）
}

// Result 模拟输出。相同输入必得相同输出：无状态、无 I/O。
type Result struct {
	TotalVolume   float64   // 税前滚动交易量（SOL）
	TotalCost     float64   // 税 + tip 累计成本（SOL）
	FinalBalances []float64 // 各钱包最终余额（SOL）
}

// Simulate 复利递推：每轮先按税前余额累计交易量，再对每个钱包扣税，
// 每轮额外累计一笔 tip 成本。taxRate 为小数（0.005 = 0.5%/轮）。
func Simulate(in Input, taxRate float64) Result {
	balances := make([]float64, len(in.Balances))
	copy(balances, in.Balances)

	var volume, cost float64
	for round := 0; round < in.Rounds; round++ {
		for i := range balances {
			volume += balances[i]
			tax := balances[i] * taxRate
			balances[i] -= tax
			cost += tax
		}
		cost += in.Tip
	}

	return Result{
		TotalVolume:   volume,
		TotalCost:     cost,
		FinalBalances: balances,
	}
}

// RenderReport 生成发回聊天的余额/交易量/成本报告
func RenderReport(in Input, r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Volume simulation (%d wallets, %d rounds)\n", len(in.Balances), in.Rounds)
	fmt.Fprintf(&b, "Total volume: %.4f SOL ($%.2f)\n", r.TotalVolume, r.TotalVolume*in.SolPrice)
	fmt.Fprintf(&b, "Total cost (tax+tip): %.4f SOL ($%.2f)\n", r.TotalCost, r.TotalCost*in.SolPrice)
	b.WriteString("Final balances:\n")
	for i, bal := range r.FinalBalances {
		fmt.Fprintf(&b, "  W%d: %.6f SOL\n", i+1, bal)
	}
	return b.String()
}
