package event

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	fail      bool
	closed    bool
	published []amqp.Publishing
	keys      []string
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _, _ bool, msg amqp.Publishing) error {
	if c.fail {
		return amqp.ErrClosed
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeConn struct{ closed bool }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestAMQPForwarder_Handle(t *testing.T) {
	ch := &fakeChannel{}
	dials := 0
	f := newAMQPForwarder(DefaultExchange, func() (publishChannel, closer, error) {
		dials++
		return ch, &fakeConn{}, nil
	}, zap.NewNop())

	e := newNoteEvent("OrderCreated")
	require.NoError(t, f.Handle(context.Background(), e))

	require.Len(t, ch.published, 1)
	assert.Equal(t, 1, dials)
	assert.Equal(t, []string{"OrderCreated"}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, e.EventID().String(), msg.MessageId)

	env, err := Unmarshal(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, e.EventID(), env.ID)
	assert.Nil(t, f.EventTypes())
}

func TestAMQPForwarder_ReconnectsAfterBrokenChannel(t *testing.T) {
	broken := &fakeChannel{fail: true}
	healthy := &fakeChannel{}
	conn := &fakeConn{}
	channels := []*fakeChannel{broken, healthy}
	f := newAMQPForwarder(DefaultExchange, func() (publishChannel, closer, error) {
		ch := channels[0]
		channels = channels[1:]
		return ch, conn, nil
	}, zap.NewNop())

	require.NoError(t, f.Handle(context.Background(), newNoteEvent("TransferCompleted")))

	assert.True(t, broken.closed)
	assert.True(t, conn.closed)
	assert.Len(t, healthy.published, 1)
}

func TestAMQPForwarder_GivesUpWhenBrokerUnreachable(t *testing.T) {
	f := newAMQPForwarder(DefaultExchange, func() (publishChannel, closer, error) {
		return nil, nil, errors.New("connection refused")
	}, zap.NewNop())

	err := f.Handle(context.Background(), newNoteEvent("OrderCreated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, f.Close())
}

func TestNewAMQPForwarder_RequiresURL(t *testing.T) {
	_, err := NewAMQPForwarder("", "", zap.NewNop())
	assert.Error(t, err)
}
