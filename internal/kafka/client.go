package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/metrics"
	"github.com/yoyo3287258/title-translator/internal/service"
)

// newProducerConfig 生产者配置
func newProducerConfig(cfg *config.KafkaConfig) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	return config
}

// newConsumerConfig 消费者组配置
func newConsumerConfig(cfg *config.KafkaConfig) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	return config
}

// Client Kafka客户端（封装生产者和消费者）
type Client struct {
	Producer *Producer
	Consumer *Consumer
}

// NewClient 创建Kafka客户端：消费翻译请求，发布翻译结果
func NewClient(cfg *config.KafkaConfig, svc *service.Service, m *metrics.Metrics, log *mlog.Logger) (*Client, error) {
	producer, err := NewProducer(cfg, m, log)
	if err != nil {
		return nil, err
	}

	handler := NewHandler(svc, producer, m, log)
	consumer, err := NewConsumer(cfg, handler, m, log)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &Client{
		Producer: producer,
		Consumer: consumer,
	}, nil
}

// Run 运行消费循环直到ctx取消
func (c *Client) Run(ctx context.Context) error {
	return c.Consumer.Run(ctx)
}

// Close 关闭客户端
func (c *Client) Close() error {
	var errs []error
	if err := c.Consumer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Producer.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("关闭Kafka客户端失败: %v", errs)
	}
	return nil
}
