package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/channel"
	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/metrics"
	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/service"
)

// Publisher 翻译结果和死信的发送方
type Publisher interface {
	Publish(resp model.TranslationResponse)
	SendRawToDLQ(payload []byte, cause error)
}

// Handler 翻译请求消息处理器，实现 sarama.ConsumerGroupHandler
type Handler struct {
	svc       *service.Service
	publisher Publisher
	metrics   *metrics.Metrics
	log       *mlog.Logger
}

// NewHandler 创建消息处理器
func NewHandler(svc *service.Service, publisher Publisher, m *metrics.Metrics, log *mlog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// HandleMessage 处理单条消息
// 格式错误的消息进入DLQ且不发布结果；其余消息总会发布一条 COMPLETED 或 FAILED 结果
// 会话取消（关闭或重平衡）不会中断进行中的翻译，调用时长由 llm.timeout 限制
func (h *Handler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) {
	ctx = context.WithoutCancel(ctx)

	if h.metrics != nil {
		h.metrics.MessagesConsumed.WithLabelValues(msg.Topic).Inc()
	}

	req, err := channel.Decode(msg.Value)
	if err != nil {
		h.log.Warn("丢弃格式错误的消息",
			mlog.String("topic", msg.Topic),
			mlog.Int("partition", int(msg.Partition)),
			mlog.Int("offset", int(msg.Offset)),
			mlog.Err(err),
		)
		if h.metrics != nil {
			h.metrics.MalformedMessages.Inc()
		}
		h.publisher.SendRawToDLQ(msg.Value, err)
		return
	}

	resp := h.svc.Translate(ctx, service.SurfaceKafka, req)
	h.publisher.Publish(resp)
}

// Setup 会话开始
func (h *Handler) Setup(session sarama.ConsumerGroupSession) error {
	h.log.Info("Kafka消费者加入消费组", mlog.String("member_id", session.MemberID()))
	return nil
}

// Cleanup 会话结束
func (h *Handler) Cleanup(session sarama.ConsumerGroupSession) error {
	h.log.Info("Kafka消费者离开消费组", mlog.String("member_id", session.MemberID()))
	return nil
}

// ConsumeClaim 逐条处理分区消息，处理完成后提交位移
func (h *Handler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.HandleMessage(session.Context(), msg)
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// rejoinBackoff 消费出错后重新加入消费组前的等待时间
const rejoinBackoff = 5 * time.Second

// Consumer Kafka消费者
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler sarama.ConsumerGroupHandler
	metrics *metrics.Metrics
	log     *mlog.Logger
	backoff time.Duration
}

// NewConsumer 创建Kafka消费者组
func NewConsumer(cfg *config.KafkaConfig, handler sarama.ConsumerGroupHandler, m *metrics.Metrics, log *mlog.Logger) (*Consumer, error) {
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, newConsumerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("创建Kafka消费者失败: %w", err)
	}
	return newConsumer(group, cfg, handler, m, log), nil
}

func newConsumer(group sarama.ConsumerGroup, cfg *config.KafkaConfig, handler sarama.ConsumerGroupHandler, m *metrics.Metrics, log *mlog.Logger) *Consumer {
	return &Consumer{
		group:   group,
		topic:   cfg.RequestTopic,
		handler: handler,
		metrics: m,
		log:     log,
		backoff: rejoinBackoff,
	}
}

// Run 消费循环，重平衡或出错后重新加入，直到ctx取消或消费组关闭
// 消费错误只记录日志和指标，不会终止消费
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.countError(err)
		}
	}()

	c.log.Info("开始消费翻译请求", mlog.String("topic", c.topic))
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.countError(err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) countError(err error) {
	c.log.Error("Kafka消费错误", mlog.String("topic", c.topic), mlog.Err(err))
	if c.metrics != nil {
		c.metrics.ConsumerErrors.Inc()
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	if c.group != nil {
		return c.group.Close()
	}
	return nil
}
