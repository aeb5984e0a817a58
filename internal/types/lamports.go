package types

import "math"

// LamportsPerSol 1 SOL = 1e9 lamports
const LamportsPerSol = 1_000_000_000

// SolToLamports 按 SOL 金额换算 lamports，向下取整避免超发
func SolToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return uint64(math.Floor(sol * LamportsPerSol))
}

// LamportsToSol lamports 换算为 SOL 浮点值（仅用于展示）
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
