package risk

import (
	"strings"

	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/tools"
)

// spamKeywords 垃圾空投常见命名词汇，命中即判定高风险。
var spamKeywords = []string{
	"airdrop",
	"free",
	"claim",
	"reward",
	"bonus",
	"gift",
	"winner",
	"congratulation",
	"lucky",
	"prize",
	"price", // 常见的 prize 仿冒拼写
}

// dustThreshold 低于该展示余额视为跟踪粉尘。
const dustThreshold = 0.0001

// Classify 对单个账户做风险评级。
// 纯函数：只依赖 (余额, 精度, 元数据)，相同输入必得相同输出。
// 规则按顺序匹配，先命中先生效（垃圾命名优先于空余额，顺序不可调换）：
//  1. 名称/符号命中垃圾词汇 → HIGH（即使余额为 0）
//  2. 0 < 展示余额 < 0.0001 → HIGH（粉尘）
//  3. 余额为 0 → LOW（可安全关闭）
//  4. 展示余额 < 1 → MEDIUM
//  5. 其余 → UNKNOWN
func Classify(rawBalance uint64, decimals uint8, meta *domain.TokenMetadata) (domain.RiskLevel, string) {
	if hasSpamName(meta) {
		return domain.RiskHigh, "suspicious name"
	}

	normalized := tools.NormalizeAmount(rawBalance, decimals)
	switch {
	case normalized > 0 && normalized < dustThreshold:
		return domain.RiskHigh, "micro balance / tracking dust"
	case rawBalance == 0:
		return domain.RiskLow, "empty account, safe to close"
	case normalized < 1:
		return domain.RiskMedium, "small balance, review before closing"
	default:
		return domain.RiskUnknown, "unable to classify"
	}
}

func hasSpamName(meta *domain.TokenMetadata) bool {
	if meta == nil {
		return false
	}
	name := strings.ToLower(meta.Name)
	symbol := strings.ToLower(meta.Symbol)
	for _, kw := range spamKeywords {
		if strings.Contains(name, kw) || strings.Contains(symbol, kw) {
			return true
		}
	}
	return false
}
