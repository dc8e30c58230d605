package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront_billing/internal/domain/entities"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "billing" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "ord-1" {
			return errors.New("wrong key " + string(key))
		}
		body, _ := msg.Value.Encode()
		var decoded map[string]interface{}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return err
		}
		if decoded["type"] != string(entities.EventPaymentRefunded) {
			return errors.New("wrong type")
		}
		return nil
	})

	pub := NewKafkaPublisher(producer, "billing", nil)
	err := pub.Publish(context.Background(), entities.DomainEvent{
		Type:       entities.EventPaymentRefunded,
		Key:        "ord-1",
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Payload:    map[string]string{"payment_id": "pay-1"},
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisher(producer, "billing", nil)
	err := pub.Publish(context.Background(), entities.DomainEvent{Type: entities.EventOrderStatusChanged, Key: "ord-1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewKafkaPublisher(producer, "billing", nil).Publish(ctx, entities.DomainEvent{Type: entities.EventOrderStatusChanged})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, producer.Close())
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), entities.DomainEvent{}))
}
