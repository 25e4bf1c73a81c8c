package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garageQueue/models"
)

func TestKafkaPublisher_SendsKeyedJSON(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	prod := mocks.NewSyncProducer(t, cfg)

	e := Event{
		Type:      OrderStatusChanged,
		OrderID:   "ord-1",
		OldStatus: models.OrderStatusWaiting,
		NewStatus: models.OrderStatusProcessing,
		Via:       "advance",
		At:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	prod.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got Event
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.OrderID != "ord-1" || got.NewStatus != models.OrderStatusProcessing {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := newKafkaPublisher(prod, "garage.orders", nil)
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_PropagatesFailure(t *testing.T) {
	prod := mocks.NewSyncProducer(t, nil)
	prod.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newKafkaPublisher(prod, "garage.orders", nil)
	err := p.Publish(context.Background(), Event{Type: OrderCreated, OrderID: "ord-2"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_CanceledContext(t *testing.T) {
	prod := mocks.NewSyncProducer(t, nil)
	p := newKafkaPublisher(prod, "garage.orders", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, Event{OrderID: "x"}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestRecorderAndNop(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), Event{OrderID: "a"}))
	require.NoError(t, Nop{}.Publish(context.Background(), Event{OrderID: "b"}))
	assert.Len(t, r.Events(), 1)
}
