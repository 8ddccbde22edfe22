package tools

import (
	"math"
	"strconv"

	"token-cleaner-sol/internal/consts"
)

// NormalizeAmount 将最小单位余额按 decimals 换算为展示值。
func NormalizeAmount(raw uint64, decimals uint8) float64 {
	if raw == 0 {
		return 0
	}
	return float64(raw) / math.Pow10(int(decimals))
}

// FormatAmount 格式化最小单位余额为可读字符串，去除无意义的尾随 0。
func FormatAmount(raw uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(raw, 10)
	}
	return strconv.FormatFloat(NormalizeAmount(raw, decimals), 'f', -1, 64)
}

// LamportsToSOL lamports → SOL 展示值。
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(consts.LamportsPerSOL)
}
