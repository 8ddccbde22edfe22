package domain

import (
	"token-cleaner-sol/internal/pkg/types"
	"token-cleaner-sol/internal/tools"
)

// RiskLevel 表示单个 Token 账户的风险评级。
type RiskLevel uint8

const (
	RiskHigh RiskLevel = iota
	RiskMedium
	RiskLow
	RiskUnknown
)

// riskPriority 排序优先级表：值越小越靠前展示/处理。
var riskPriority = map[RiskLevel]int{
	RiskHigh:    0,
	RiskMedium:  1,
	RiskLow:     2,
	RiskUnknown: 3,
}

// Priority 返回该评级的排序优先级，未知评级排最后。
func (r RiskLevel) Priority() int {
	if p, ok := riskPriority[r]; ok {
		return p
	}
	return len(riskPriority)
}

func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "HIGH"
	case RiskMedium:
		return "MEDIUM"
	case RiskLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// TokenMetadata Metaplex 链上元数据（已去除 borsh 填充的尾部 \x00）。
type TokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Uri    string `json:"uri"`
}

// Holding 表示扫描时刻某个 SPL Token 账户的不可变快照。
// 扫描后不再修改；处理只改变链上状态和处理器自己的计数。
type Holding struct {
	Address    types.Pubkey   // Token 账户地址
	Mint       types.Pubkey   // Token mint 地址
	RawBalance uint64         // 余额（最小单位）
	Decimals   uint8          // Token 精度
	Metadata   *TokenMetadata // 元数据，查询失败或未查询时为 nil
	Risk       RiskLevel      // 风险评级
	RiskReason string         // 评级依据（展示用）
}

// Closeable 余额为 0 的账户可直接关闭并回收租金。
func (h *Holding) Closeable() bool {
	return h.RawBalance == 0
}

// NormalizedBalance 按 decimals 换算后的展示余额。
func (h *Holding) NormalizedBalance() float64 {
	return tools.NormalizeAmount(h.RawBalance, h.Decimals)
}

// DisplayName 优先取元数据 symbol/name，缺失时回退到截断 mint 地址。
func (h *Holding) DisplayName() string {
	if h.Metadata != nil {
		if h.Metadata.Symbol != "" {
			return h.Metadata.Symbol
		}
		if h.Metadata.Name != "" {
			return h.Metadata.Name
		}
	}
	return h.Mint.Short()
}
