package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"volume-bot-sol/internal/simulator"
)

// 输入解析：按空白切分的数字元组，数量或格式不对立即报错，
// 不做任何部分执行。所有金额必须为正。

type DistributeArgs struct {
	AmountSol float64
	TipSol    float64
	Steps     int
}

// ParseDistributeArgs 解析 "SOL_AMOUNT JITO_TIP STEPS"
func ParseDistributeArgs(text string) (DistributeArgs, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return DistributeArgs{}, fmt.Errorf("expected 3 values: SOL_AMOUNT JITO_TIP STEPS, got %d", len(fields))
	}
	amount, err := parsePositiveFloat(fields[0], "SOL_AMOUNT")
	if err != nil {
		return DistributeArgs{}, err
	}
	tip, err := parsePositiveFloat(fields[1], "JITO_TIP")
	if err != nil {
		return DistributeArgs{}, err
	}
	steps, err := parsePositiveInt(fields[2], "STEPS")
	if err != nil {
		return DistributeArgs{}, err
	}
	return DistributeArgs{AmountSol: amount, TipSol: tip, Steps: steps}, nil
}

type VolumeArgs struct {
	MarketID string
	Cycles   int
	Delay    time.Duration
	TipSol   float64
}

// ParseVolumeArgs 解析 "MARKET_ID CYCLES DELAY_SEC JITO_TIP"
func ParseVolumeArgs(text string) (VolumeArgs, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return VolumeArgs{}, fmt.Errorf("expected 4 values: MARKET_ID CYCLES DELAY_SEC JITO_TIP, got %d", len(fields))
	}
	cycles, err := parsePositiveInt(fields[1], "CYCLES")
	if err != nil {
		return VolumeArgs{}, err
	}
	delaySec, err := parsePositiveFloat(fields[2], "DELAY_SEC")
	if err != nil {
		return VolumeArgs{}, err
	}
	tip, err := parsePositiveFloat(fields[3], "JITO_TIP")
	if err != nil {
		return VolumeArgs{}, err
	}
	return VolumeArgs{
		MarketID: fields[0],
		Cycles:   cycles,
		Delay:    time.Duration(delaySec * float64(time.Second)),
		TipSol:   tip,
	}, nil
}

// ParseSimulateArgs 解析 "SOL_PRICE JITO_TIP EXECUTIONS W1 W2 ..."
func ParseSimulateArgs(text string) (simulator.Input, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return simulator.Input{}, fmt.Errorf("expected at least 4 values: SOL_PRICE JITO_TIP EXECUTIONS W1 [W2 ...], got %d", len(fields))
	}
	price, err := parsePositiveFloat(fields[0], "SOL_PRICE")
	if err != nil {
		return simulator.Input{}, err
	}
	tip, err := parsePositiveFloat(fields[1], "JITO_TIP")
	if err != nil {
		return simulator.Input{}, err
	}
	rounds, err := parsePositiveInt(fields[2], "EXECUTIONS")
	if err != nil {
		return simulator.Input{}, err
	}
	balances := make([]float64, 0, len(fields)-3)
	for i, f := range fields[3:] {
		b, err := parsePositiveFloat(f, fmt.Sprintf("W%d", i+1))
		if err != nil {
			return simulator.Input{}, err
		}
		balances = append(balances, b)
	}
	return simulator.Input{SolPrice: price, Tip: tip, Rounds: rounds, Balances: balances}, nil
}

// ParseCollectArgs 解析 "JITO_TIP"
func ParseCollectArgs(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return 0, fmt.Errorf("expected 1 value: JITO_TIP, got %d", len(fields))
	}
	return parsePositiveFloat(fields[0], "JITO_TIP")
}

// ParseWalletCount 解析 "WALLET_COUNT"，上限防呆
func ParseWalletCount(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return 0, fmt.Errorf("expected 1 value: WALLET_COUNT, got %d", len(fields))
	}
	n, err := parsePositiveInt(fields[0], "WALLET_COUNT")
	if err != nil {
		return 0, err
	}
	if n > 50 {
		return 0, fmt.Errorf("WALLET_COUNT too large: %d (max 50)", n)
	}
	return n, nil
}

func parsePositiveFloat(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", name, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", name, v)
	}
	return v, nil
}

func parsePositiveInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %q", name, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, v)
	}
	return v, nil
}
