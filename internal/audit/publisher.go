package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"volume-bot-sol/internal/config"
	"volume-bot-sol/internal/pkg/logger"
	"volume-bot-sol/internal/pkg/mq"
)

// Event 一次 bundle 提交的审计记录
type Event struct {
	UserID    int64  `json:"user_id"`
	Action    string `json:"action"` // distribute / volume / collect
	BundleID  string `json:"bundle_id,omitempty"`
	TxCount   int    `json:"tx_count"`
	Lamports  uint64 `json:"lamports"` // 本次动用的 lamports（含 tip）
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher 将提交结果异步写入 Kafka。审计失败只记日志，
// 不回传用户、不阻塞交易流程。nil Publisher 的所有方法都是 no-op。
type Publisher struct {
	producer *kafka.Producer
	topic    string
	timeout  time.Duration
}

// NewPublisher brokers 未配置时返回 (nil, nil)，审计整体关闭
func NewPublisher(cfg config.KafkaAuditConfig) (*Publisher, error) {
	if !cfg.Enabled() {
		logger.Infof("[audit] kafka audit disabled (no brokers configured)")
		return nil, nil
	}
	producer, err := mq.NewKafkaProducer(cfg.ToKafkaOption())
	if err != nil {
		return nil, fmt.Errorf("init audit producer: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{producer: producer, topic: cfg.Topic, timeout: timeout}, nil
}

func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("[audit] encode event failed: %v", err)
		return
	}
	job := &mq.KafkaJob{
		Topic: p.topic,
		Key:   []byte(fmt.Sprintf("%d", ev.UserID)),
		Value: value,
	}
	if err := mq.SendKafkaJob(ctx, p.producer, job, p.timeout); err != nil {
		logger.Warnf("[audit] publish failed: user=%d action=%s err=%v", ev.UserID, ev.Action, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.producer.Close()
}
