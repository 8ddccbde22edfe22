package risk

import (
	"testing"

	"token-cleaner-sol/internal/logic/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Rules(t *testing.T) {
	cases := []struct {
		name       string
		rawBalance uint64
		decimals   uint8
		meta       *domain.TokenMetadata
		wantLevel  domain.RiskLevel
	}{
		{"垃圾命名（name 命中）", 1000000, 6, &domain.TokenMetadata{Name: "Free Airdrop Token"}, domain.RiskHigh},
		{"垃圾命名（symbol 命中，大小写不敏感）", 1000000, 6, &domain.TokenMetadata{Symbol: "CLAIM"}, domain.RiskHigh},
		{"粉尘余额", 50, 9, &domain.TokenMetadata{Name: "Some Token"}, domain.RiskHigh},
		{"空账户", 0, 6, &domain.TokenMetadata{Name: "Some Token"}, domain.RiskLow},
		{"空账户且无元数据", 0, 6, nil, domain.RiskLow},
		{"小余额", 500000, 6, &domain.TokenMetadata{Name: "Some Token"}, domain.RiskMedium},
		{"正常余额", 5_000_000, 6, &domain.TokenMetadata{Name: "Some Token"}, domain.RiskUnknown},
		{"无元数据不触发规则 1", 5_000_000, 6, nil, domain.RiskUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			level, reason := Classify(c.rawBalance, c.decimals, c.meta)
			assert.Equal(t, c.wantLevel, level, "评级不符")
			assert.NotEmpty(t, reason, "评级依据必须非空")
		})
	}
}

// 规则 1 优先于规则 3：余额为 0 但命名可疑的账户仍判 HIGH，不能落到 LOW。
func TestClassify_SpamNameOverridesEmpty(t *testing.T) {
	level, reason := Classify(0, 6, &domain.TokenMetadata{Name: "Lucky Winner Prize"})
	assert.Equal(t, domain.RiskHigh, level, "垃圾命名应优先于空余额判定")
	assert.Equal(t, "suspicious name", reason)
}

// 纯函数：相同输入重复调用结果必须一致。
func TestClassify_Deterministic(t *testing.T) {
	meta := &domain.TokenMetadata{Name: "Bonus Gift", Symbol: "BG"}
	l1, r1 := Classify(123, 9, meta)
	for i := 0; i < 100; i++ {
		l2, r2 := Classify(123, 9, meta)
		assert.Equal(t, l1, l2)
		assert.Equal(t, r1, r2)
	}
}

// 粉尘阈值边界：恰好 0.0001 不算粉尘。
func TestClassify_DustBoundary(t *testing.T) {
	// 0.0001 * 10^6 = 100
	level, _ := Classify(100, 6, nil)
	assert.Equal(t, domain.RiskMedium, level, "等于阈值不应判粉尘")

	level, _ = Classify(99, 6, nil)
	assert.Equal(t, domain.RiskHigh, level, "低于阈值应判粉尘")
}
