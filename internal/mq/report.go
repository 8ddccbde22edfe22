package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"token-cleaner-sol/internal/logic/processor"
	"token-cleaner-sol/internal/pkg/logger"
	"token-cleaner-sol/internal/pkg/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// CleanReport 单个账户的清理结果记录（JSON 上报）。
type CleanReport struct {
	Wallet    string `json:"wallet"`
	Account   string `json:"account"`
	Mint      string `json:"mint"`
	Action    string `json:"action"`
	Amount    uint64 `json:"amount"`
	Risk      string `json:"risk"`
	Signature string `json:"signature,omitempty"`
	DryRun    bool   `json:"dry_run"`
	Error     string `json:"error,omitempty"`
	Ts        int64  `json:"ts"`
}

// ReportSender 把一次运行的处理结果逐条发布到 Kafka。
// 可选能力：发送失败只告警，不影响运行结果。
type ReportSender struct {
	producer   *kafka.Producer
	topic      string
	partitions uint32
	timeout    time.Duration
}

func NewReportSender(producer *kafka.Producer, topic string, partitions int) *ReportSender {
	if partitions <= 0 {
		partitions = defaultPartitions
	}
	return &ReportSender{
		producer:   producer,
		topic:      topic,
		partitions: uint32(partitions),
		timeout:    10 * time.Second,
	}
}

// SendRunReport 把处理器产出的逐账户结果上报。
// 同一钱包的记录路由到同一分区，保持单钱包内的顺序。
func (s *ReportSender) SendRunReport(ctx context.Context, wallet string, walletRaw []byte, dryRun bool, outcomes []processor.Outcome) {
	if s == nil || s.producer == nil || len(outcomes) == 0 {
		return
	}

	partition := int32(utils.PartitionHashBytes(walletRaw, s.partitions))
	now := time.Now().Unix()

	sent := 0
	for _, o := range outcomes {
		report := CleanReport{
			Wallet:    wallet,
			Account:   o.Holding.Address.String(),
			Mint:      o.Holding.Mint.String(),
			Action:    string(o.Action),
			Amount:    o.Holding.RawBalance,
			Risk:      o.Holding.Risk.String(),
			Signature: o.Signature,
			DryRun:    dryRun,
			Ts:        now,
		}
		if o.Err != nil {
			report.Error = o.Err.Error()
		}

		value, err := json.Marshal(report)
		if err != nil {
			logger.Warnf("[ReportSender] 报告序列化失败: account=%s, err=%v", report.Account, err)
			continue
		}
		if err := s.sendOne(ctx, partition, value); err != nil {
			logger.Warnf("[ReportSender] 报告发送失败: account=%s, err=%v", report.Account, err)
			continue
		}
		sent++
	}
	logger.Infof("[ReportSender] 清理报告发送完成: wallet=%s, total=%d, sent=%d", wallet, len(outcomes), sent)
}

// sendOne 发送单条记录并等待投递回执。
func (s *ReportSender) sendOne(ctx context.Context, partition int32, value []byte) error {
	deliveryChan := make(chan kafka.Event, 1)
	err := s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &s.topic,
			Partition: partition,
		},
		Value: value,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce error: %w", err)
	}

	select {
	case e, ok := <-deliveryChan:
		if !ok {
			return fmt.Errorf("delivery channel closed unexpectedly")
		}
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("invalid message type: %T", e)
		}
		return msg.TopicPartition.Error
	case <-time.After(s.timeout):
		return fmt.Errorf("delivery timeout (>%v)", s.timeout)
	case <-ctx.Done():
		return fmt.Errorf("ctx cancelled: %w", ctx.Err())
	}
}
