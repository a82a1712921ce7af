package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/metrics"
	"github.com/yoyo3287258/title-translator/internal/model"
)

// Producer Kafka生产者
// 发送失败只记录日志和指标，不通知调用方
type Producer struct {
	producer      sarama.SyncProducer
	responseTopic string
	dlqTopic      string
	metrics       *metrics.Metrics
	log           *mlog.Logger
}

// NewProducer 创建Kafka生产者
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, log *mlog.Logger) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newProducerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("创建Kafka生产者失败: %w", err)
	}
	return newProducer(producer, cfg, m, log), nil
}

func newProducer(sp sarama.SyncProducer, cfg *config.KafkaConfig, m *metrics.Metrics, log *mlog.Logger) *Producer {
	return &Producer{
		producer:      sp,
		responseTopic: cfg.ResponseTopic,
		dlqTopic:      cfg.DLQTopic,
		metrics:       m,
		log:           log,
	}
}

// Publish 发布翻译结果，key为documentId
func (p *Producer) Publish(resp model.TranslationResponse) {
	p.log.Info("发送翻译结果",
		mlog.String("document_id", resp.DocumentID),
		mlog.String("status", string(resp.Status)),
	)
	if err := p.send(p.responseTopic, resp.DocumentID, resp); err != nil {
		p.log.Error("发送翻译结果失败", mlog.String("document_id", resp.DocumentID), mlog.Err(err))
	}
}

// SendToDLQ 将原始请求和错误描述发送到死信队列
func (p *Producer) SendToDLQ(req model.TranslationRequest, cause error) {
	p.log.Info("发送失败请求到DLQ", mlog.String("document_id", req.DocumentID))
	if err := p.send(p.dlqTopic, req.DocumentID, model.NewDeadLetter(req, cause)); err != nil {
		p.log.Error("发送DLQ消息失败", mlog.String("document_id", req.DocumentID), mlog.Err(err))
	}
}

// SendRawToDLQ 将无法解析的原始消息发送到死信队列
func (p *Producer) SendRawToDLQ(payload []byte, cause error) {
	p.log.Info("发送无法解析的消息到DLQ", mlog.Int("size", len(payload)))
	if err := p.send(p.dlqTopic, "", model.NewDeadLetter(string(payload), cause)); err != nil {
		p.log.Error("发送DLQ消息失败", mlog.Err(err))
	}
}

// send 序列化并同步发送
func (p *Producer) send(topic, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		p.countError(topic)
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.countError(topic)
		return fmt.Errorf("发送Kafka消息失败: %w", err)
	}

	return nil
}

func (p *Producer) countError(topic string) {
	if p.metrics != nil {
		p.metrics.PublishErrors.WithLabelValues(topic).Inc()
	}
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
