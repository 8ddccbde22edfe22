package svc

import (
	"context"
	"time"

	"token-cleaner-sol/internal/config"
	"token-cleaner-sol/internal/ledger"
	"token-cleaner-sol/internal/metadata"
	"token-cleaner-sol/internal/mq"
	"token-cleaner-sol/internal/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含 scan / clean 命令共用的资源。
// Redis 与 Kafka 都是可选运维增强：初始化失败降级为 nil 并告警，不阻断运行。
type ServiceContext struct {
	Config   config.CleanerConfig
	Ledger   *ledger.Client
	Metadata *metadata.Resolver
	Redis    redis.UniversalClient // 可为 nil
	Producer *kafka.Producer       // 可为 nil
	Reporter *mq.ReportSender      // 可为 nil
}

// NewServiceContext 创建服务上下文，RPC 端点配置在进程启动时注入一次。
func NewServiceContext(c config.CleanerConfig) *ServiceContext {
	sc := &ServiceContext{Config: c}

	// 1. RPC 客户端（必选）
	sc.Ledger = ledger.NewClient(c.RpcConf, c.TimeConf)

	// 2. Redis 元数据缓存（可选）
	if c.RedisConf.Addr != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{c.RedisConf.Addr},
			Password: c.RedisConf.Password,
			DB:       c.RedisConf.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warnf("[ServiceContext] Redis 不可用, 元数据缓存禁用: addr=%s, err=%v", c.RedisConf.Addr, err)
			_ = rdb.Close()
		} else {
			sc.Redis = rdb
		}
		cancel()
	}

	// 3. 元数据解析器（缓存可缺省）
	ttl := time.Duration(c.RedisConf.MetadataTTLMin) * time.Minute
	sc.Metadata = metadata.NewResolver(sc.Ledger.Raw(), sc.Redis, ttl)

	// 4. Kafka 清理报告（可选）
	if c.KafkaReportConf.Brokers != "" && c.KafkaReportConf.Topic != "" {
		producer, err := mq.NewReportProducer(c.KafkaReportConf)
		if err != nil {
			logger.Warnf("[ServiceContext] Kafka 不可用, 清理报告禁用: brokers=%s, err=%v", c.KafkaReportConf.Brokers, err)
		} else {
			sc.Producer = producer
			sc.Reporter = mq.NewReportSender(producer, c.KafkaReportConf.Topic, c.KafkaReportConf.Partitions)
		}
	}

	logger.Infof("[ServiceContext] 初始化完成: rpc=%s, redisCache=%v, kafkaReport=%v",
		c.RpcConf.Endpoint, sc.Redis != nil, sc.Reporter != nil)
	return sc
}

// Close 关闭服务上下文中的资源。
func (sc *ServiceContext) Close() {
	if sc.Producer != nil {
		sc.Producer.Flush(3000)
		sc.Producer.Close()
	}
	if sc.Redis != nil {
		_ = sc.Redis.Close()
	}
}
