package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevel_Priority(t *testing.T) {
	assert.Equal(t, 0, RiskHigh.Priority())
	assert.Equal(t, 1, RiskMedium.Priority())
	assert.Equal(t, 2, RiskLow.Priority())
	assert.Equal(t, 3, RiskUnknown.Priority())

	// Priority 应给出 HIGH < MEDIUM < LOW < UNKNOWN 的全序
	levels := []RiskLevel{RiskUnknown, RiskLow, RiskHigh, RiskMedium}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Priority() < levels[j].Priority() })
	assert.Equal(t, []RiskLevel{RiskHigh, RiskMedium, RiskLow, RiskUnknown}, levels)
}

func TestHolding_Closeable(t *testing.T) {
	h := Holding{RawBalance: 0}
	assert.True(t, h.Closeable(), "零余额账户应可关闭")

	h.RawBalance = 1
	assert.False(t, h.Closeable(), "非零余额账户不可直接关闭")
}

func TestHolding_DisplayName(t *testing.T) {
	h := Holding{Metadata: &TokenMetadata{Name: "Wrapped SOL", Symbol: "wSOL"}}
	assert.Equal(t, "wSOL", h.DisplayName(), "优先展示 symbol")

	h.Metadata.Symbol = ""
	assert.Equal(t, "Wrapped SOL", h.DisplayName())

	h.Metadata = nil
	assert.NotEmpty(t, h.DisplayName(), "无元数据时回退到截断地址")
}
