package metadata

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/scanner"
	"token-cleaner-sol/internal/pkg/logger"
	"token-cleaner-sol/internal/pkg/types"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/near/borsh-go"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "token_meta:"
	defaultCacheTTL = time.Hour
)

// metadataAccount Metaplex Metadata 账户的 borsh 前缀布局，
// 只取到 uri 为止，后续字段（creators 等）留在缓冲区里不解析。
type metadataAccount struct {
	Key             uint8
	UpdateAuthority [32]uint8
	Mint            [32]uint8
	Name            string
	Symbol          string
	Uri             string
}

// Resolver 批量解析 mint 的 Metaplex 链上元数据，带可选 Redis 缓存。
// 尽力而为：任何失败都降级为"无元数据"，只影响展示与垃圾命名规则的命中。
type Resolver struct {
	rpc *client.Client
	rdb redis.UniversalClient // nil 时禁用缓存
	ttl time.Duration
}

var _ scanner.MetadataSource = (*Resolver)(nil)

func NewResolver(rpc *client.Client, rdb redis.UniversalClient, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Resolver{rpc: rpc, rdb: rdb, ttl: ttl}
}

// Resolve 解析一批 mint 的元数据。返回 map 中缺失的 mint 表示无元数据，
// 调用方不应将缺失视为错误。
func (r *Resolver) Resolve(ctx context.Context, mints []types.Pubkey) map[types.Pubkey]*domain.TokenMetadata {
	result := make(map[types.Pubkey]*domain.TokenMetadata, len(mints))

	misses := make([]types.Pubkey, 0, len(mints))
	for _, mint := range mints {
		if meta := r.cacheGet(ctx, mint); meta != nil {
			result[mint] = meta
			continue
		}
		misses = append(misses, mint)
	}
	if len(misses) == 0 {
		return result
	}

	fetched := r.fetchFromChain(ctx, misses)
	for mint, meta := range fetched {
		result[mint] = meta
		r.cacheSet(ctx, mint, meta)
	}
	logger.Debugf("[Metadata] 解析完成: requested=%d, cacheHit=%d, fetched=%d",
		len(mints), len(mints)-len(misses), len(fetched))
	return result
}

// fetchFromChain 推导各 mint 的 Metadata PDA 后一次 GetMultipleAccounts 拉取并解码。
// 查询失败与账户不存在都按"无元数据"处理，但日志级别区分以便排查。
func (r *Resolver) fetchFromChain(ctx context.Context, mints []types.Pubkey) map[types.Pubkey]*domain.TokenMetadata {
	pdas := make([]string, 0, len(mints))
	valid := make([]types.Pubkey, 0, len(mints))
	for _, mint := range mints {
		pda, err := token_metadata.GetTokenMetaPubkey(common.PublicKeyFromBytes(mint[:]))
		if err != nil {
			logger.Warnf("[Metadata] PDA 推导失败: mint=%s, err=%v", mint, err)
			continue
		}
		pdas = append(pdas, pda.ToBase58())
		valid = append(valid, mint)
	}
	if len(pdas) == 0 {
		return nil
	}

	infos, err := r.rpc.GetMultipleAccounts(ctx, pdas)
	if err != nil {
		// 查询错误（区别于账户不存在）：降级为全部无元数据
		logger.Warnf("[Metadata] 批量查询失败, 本次全部按无元数据处理: count=%d, err=%v", len(pdas), err)
		return nil
	}

	result := make(map[types.Pubkey]*domain.TokenMetadata, len(infos))
	for i, info := range infos {
		if len(info.Data) == 0 {
			// 未铸造元数据的 mint，正常情况
			logger.Debugf("[Metadata] 无元数据账户: mint=%s", valid[i])
			continue
		}
		meta, err := decodeMetadata(info.Data)
		if err != nil {
			logger.Warnf("[Metadata] 解码失败: mint=%s, err=%v", valid[i], err)
			continue
		}
		result[valid[i]] = meta
	}
	return result
}

// decodeMetadata borsh 解码并去掉 Metaplex 定长字段的尾部 \x00 填充。
func decodeMetadata(data []byte) (*domain.TokenMetadata, error) {
	var acc metadataAccount
	if err := borsh.Deserialize(&acc, data); err != nil {
		return nil, err
	}
	return &domain.TokenMetadata{
		Name:   strings.TrimRight(acc.Name, "\x00"),
		Symbol: strings.TrimRight(acc.Symbol, "\x00"),
		Uri:    strings.TrimRight(acc.Uri, "\x00"),
	}, nil
}

func (r *Resolver) cacheGet(ctx context.Context, mint types.Pubkey) *domain.TokenMetadata {
	if r.rdb == nil {
		return nil
	}
	val, err := r.rdb.Get(ctx, cacheKeyPrefix+mint.String()).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("[Metadata] 缓存读取失败: mint=%s, err=%v", mint, err)
		}
		return nil
	}
	var meta domain.TokenMetadata
	if err := json.Unmarshal([]byte(val), &meta); err != nil {
		logger.Warnf("[Metadata] 缓存内容损坏, 忽略: mint=%s, err=%v", mint, err)
		return nil
	}
	return &meta
}

func (r *Resolver) cacheSet(ctx context.Context, mint types.Pubkey, meta *domain.TokenMetadata) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, cacheKeyPrefix+mint.String(), data, r.ttl).Err(); err != nil {
		logger.Warnf("[Metadata] 缓存写入失败: mint=%s, err=%v", mint, err)
	}
}
