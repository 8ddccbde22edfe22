package scanner

import (
	"context"
	"fmt"
	"sort"

	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/risk"
	"token-cleaner-sol/internal/pkg/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// MaxMetadataPerBatch 单次元数据批量查询的 mint 数量上限，
// 超出部分直接不解析（展示回退到 mint 地址），不算错误。
const MaxMetadataPerBatch = 100

// RawAccount 账本查询返回的原始 Token 账户（已补齐 decimals）。
type RawAccount struct {
	Address  types.Pubkey
	Mint     types.Pubkey
	Amount   uint64
	Decimals uint8
}

// LedgerSource 账本查询接口，失败对扫描是致命的。
type LedgerSource interface {
	ListTokenAccounts(ctx context.Context, owner types.Pubkey) ([]RawAccount, error)
}

// MetadataSource 元数据批量解析接口。
// 尽力而为：返回的 map 中缺某个 mint 不算错误，查询失败由实现方降级为空结果。
type MetadataSource interface {
	Resolve(ctx context.Context, mints []types.Pubkey) map[types.Pubkey]*domain.TokenMetadata
}

// Scanner 枚举钱包下的全部 SPL Token 账户，补充元数据并评级，
// 输出按风险优先级稳定排序的快照列表。
type Scanner struct {
	ledger LedgerSource
	meta   MetadataSource
	logx.Logger
}

func NewScanner(ledger LedgerSource, meta MetadataSource) *Scanner {
	return &Scanner{
		ledger: ledger,
		meta:   meta,
		Logger: logx.WithContext(context.Background()).WithFields(logx.Field("service", "scanner")),
	}
}

// Scan 扫描 owner 名下全部 Token 账户。
// 账本查询失败整个扫描失败；元数据缺失只影响展示与规则 1 的命中，不会中断。
func (s *Scanner) Scan(ctx context.Context, owner types.Pubkey) ([]domain.Holding, error) {
	accounts, err := s.ledger.ListTokenAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list token accounts for %s: %w", owner, err)
	}
	s.Infof("[Scanner] 账户枚举完成: owner=%s, count=%d", owner.Short(), len(accounts))

	metaByMint := s.resolveMetadata(ctx, accounts)

	holdings := make([]domain.Holding, 0, len(accounts))
	for _, acc := range accounts {
		meta := metaByMint[acc.Mint]
		level, reason := risk.Classify(acc.Amount, acc.Decimals, meta)
		holdings = append(holdings, domain.Holding{
			Address:    acc.Address,
			Mint:       acc.Mint,
			RawBalance: acc.Amount,
			Decimals:   acc.Decimals,
			Metadata:   meta,
			Risk:       level,
			RiskReason: reason,
		})
	}

	// 稳定排序：同一风险档位保持账本返回的原始相对顺序
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Risk.Priority() < holdings[j].Risk.Priority()
	})
	return holdings, nil
}

// resolveMetadata 对去重后的 mint 做一次批量解析，截断到批量上限。
func (s *Scanner) resolveMetadata(ctx context.Context, accounts []RawAccount) map[types.Pubkey]*domain.TokenMetadata {
	if s.meta == nil || len(accounts) == 0 {
		return nil
	}

	seen := make(map[types.Pubkey]struct{}, len(accounts))
	mints := make([]types.Pubkey, 0, len(accounts))
	for _, acc := range accounts {
		if _, ok := seen[acc.Mint]; ok {
			continue
		}
		seen[acc.Mint] = struct{}{}
		mints = append(mints, acc.Mint)
	}

	if len(mints) > MaxMetadataPerBatch {
		s.Infof("[Scanner] mint 数量超过批量上限, 只解析前 %d 个: total=%d", MaxMetadataPerBatch, len(mints))
		mints = mints[:MaxMetadataPerBatch]
	}

	result := s.meta.Resolve(ctx, mints)
	s.Infof("[Scanner] 元数据解析完成: requested=%d, resolved=%d", len(mints), len(result))
	return result
}
