package rabbitmq_consumer

import (
	"context"
	"errors"
	"testing"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAcknowledger struct {
	acks  int
	nacks int
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(uint64, bool, bool) error {
	a.nacks++
	return nil
}

func (a *recordingAcknowledger) Reject(uint64, bool) error {
	a.nacks++
	return nil
}

type recordingPublisher struct {
	err       error
	published []amqp.Publishing
	keys      []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, routingKey)
	p.published = append(p.published, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestConsumer(retry bool, pub publisher) *DistributingConsumer {
	return &DistributingConsumer{
		base: &baseConsumer{
			config: ConsumerConfig{
				EnableRetryMechanism: retry,
				MaxRetries:           2,
				FinalDLQRoutingKey:   "final",
			},
			actualQueueName:   "catalog_property_upserts",
			finalDlxPublisher: pub,
			logger:            rabbitmq_common.NewNoopLogger(),
		},
	}
}

func deliveryWithDeaths(ack amqp.Acknowledger, count int64) amqp.Delivery {
	d := amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)}
	if count > 0 {
		d.Headers = amqp.Table{
			"x-death": []interface{}{
				amqp.Table{"queue": "catalog_property_upserts", "count": count},
			},
		}
	}
	return d
}

func TestSettle_SuccessAcks(t *testing.T) {
	ack := &recordingAcknowledger{}
	c := newTestConsumer(false, nil)

	c.settle(context.Background(), deliveryWithDeaths(ack, 0), nil)

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
}

func TestSettle_FailureWithoutRetryNacks(t *testing.T) {
	ack := &recordingAcknowledger{}
	c := newTestConsumer(false, nil)

	c.settle(context.Background(), deliveryWithDeaths(ack, 0), errors.New("boom"))

	assert.Zero(t, ack.acks)
	assert.Equal(t, 1, ack.nacks)
}

func TestSettle_RetriesUntilLimitThenPublishesToFinalDLX(t *testing.T) {
	pub := &recordingPublisher{}
	c := newTestConsumer(true, pub)

	first := &recordingAcknowledger{}
	c.settle(context.Background(), deliveryWithDeaths(first, 1), errors.New("boom"))
	assert.Equal(t, 1, first.nacks)
	assert.Empty(t, pub.published)

	last := &recordingAcknowledger{}
	c.settle(context.Background(), deliveryWithDeaths(last, 2), errors.New("boom"))
	assert.Equal(t, 1, last.acks)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "final", pub.keys[0])
	assert.Equal(t, amqp.Persistent, pub.published[0].DeliveryMode)
}

func TestSettle_FinalDLXFailureNacks(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	c := newTestConsumer(true, pub)

	ack := &recordingAcknowledger{}
	c.settle(context.Background(), deliveryWithDeaths(ack, 5), errors.New("boom"))

	assert.Zero(t, ack.acks)
	assert.Equal(t, 1, ack.nacks)
}

func TestDeathCount(t *testing.T) {
	assert.Zero(t, deathCount(amqp.Delivery{}, "q"))
	assert.Zero(t, deathCount(amqp.Delivery{Headers: amqp.Table{"x-death": "garbage"}}, "q"))

	d := amqp.Delivery{Headers: amqp.Table{"x-death": []interface{}{
		amqp.Table{"queue": "retry-wait", "count": int64(7)},
		amqp.Table{"queue": "q", "count": int64(3)},
	}}}
	assert.Equal(t, int64(3), deathCount(d, "q"))
}

func TestConsumerConfigValidate(t *testing.T) {
	base := rabbitmq_common.Config{URL: "amqp://localhost:5672/"}

	assert.Error(t, ConsumerConfig{Config: base}.Validate(), "queue name required without declare")
	assert.NoError(t, ConsumerConfig{Config: base, QueueName: "q"}.Validate())
	assert.Error(t, ConsumerConfig{Config: base, QueueName: "q", DeclareExchangeForBind: true}.Validate())
	assert.Error(t, ConsumerConfig{Config: base, QueueName: "q", EnableRetryMechanism: true}.Validate())
	assert.NoError(t, ConsumerConfig{
		Config:               base,
		QueueName:            "q",
		EnableRetryMechanism: true,
		RetryExchange:        "q_retry_exchange",
		RetryQueue:           "q_retry_wait",
		RetryTTL:             5000,
		FinalDLXExchange:     "q_final_dlx",
		FinalDLQ:             "q_final_dlq",
		MaxRetries:           3,
	}.Validate())
}
