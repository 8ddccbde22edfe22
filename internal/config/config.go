package config

import (
	"token-cleaner-sol/internal/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径，留空只打 stdout）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig 表示 Solana RPC 节点配置（进程启动时构造一次，显式注入各组件）
type RpcConfig struct {
	Endpoint string `yaml:"endpoint"` // RPC 节点地址，例如 https://api.mainnet-beta.solana.com
	ApiKey   string `yaml:"api_key"`  // 节点服务商 api key，留空表示公共节点
}

// Url 拼出完整请求地址；Helius 等服务商以 query 参数携带 api key。
func (c *RpcConfig) Url() string {
	if c.ApiKey == "" {
		return c.Endpoint
	}
	return c.Endpoint + "?api-key=" + c.ApiKey
}

// RedisConfig 元数据缓存用 Redis，可选（addr 留空关闭）
type RedisConfig struct {
	Addr           string `yaml:"addr"`             // Redis 地址，留空禁用缓存
	Password       string `yaml:"password"`         // 密码
	DB             int    `yaml:"db"`               // 数据库编号
	MetadataTTLMin int    `yaml:"metadata_ttl_min"` // 元数据缓存 TTL（分钟），默认 60
}

// KafkaReportConfig 清理报告 Kafka 生产者配置，可选（brokers 留空关闭）
type KafkaReportConfig struct {
	Brokers    string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔，留空禁用报告
	Topic      string `yaml:"topic"`      // 清理报告 topic
	Partitions int    `yaml:"partitions"` // topic 分区数
	BatchSize  int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs   int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）
}

// TimeConfig 表示各种超时配置
type TimeConfig struct {
	RpcTimeoutSec     int `yaml:"rpc_timeout_sec"`     // 单次 RPC 查询超时（秒），默认 15
	ConfirmPollMs     int `yaml:"confirm_poll_ms"`     // 交易确认轮询间隔（毫秒），默认 1000
	ConfirmTimeoutSec int `yaml:"confirm_timeout_sec"` // 单笔交易确认等待上限（秒），默认 60
}

// CleanerConfig 是主配置结构体，scan / clean 两个命令共用
type CleanerConfig struct {
	LogConf         LogConfig         `yaml:"logger"`       // 日志配置
	RpcConf         RpcConfig         `yaml:"rpc"`          // RPC 节点配置
	RedisConf       RedisConfig       `yaml:"redis"`        // 元数据缓存配置（可选）
	KafkaReportConf KafkaReportConfig `yaml:"kafka_report"` // 清理报告配置（可选）
	TimeConf        TimeConfig        `yaml:"time_conf"`    // 时间相关配置

	MaxPerTx int `yaml:"max_per_tx"` // 单笔交易最多打包的账户数，默认 5
}
