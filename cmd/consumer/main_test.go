package main

import (
	"VideoForge/internal/notify"
	"context"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type flakyTarget struct {
	err  error
	sent []notify.VideoSubmittedEvent
}

func (t *flakyTarget) VideoSubmitted(_ context.Context, ev notify.VideoSubmittedEvent) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, ev)
	return nil
}

func (t *flakyTarget) IssueOpened(context.Context, notify.IssueEvent) error { return t.err }

func delivery(t *testing.T, body []byte, redelivered bool) (amqp.Delivery, *fakeAck) {
	t.Helper()
	ack := &fakeAck{}
	return amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: redelivered, DeliveryTag: 1}, ack
}

func submittedBody(t *testing.T) []byte {
	t.Helper()
	body, err := notify.Encode(notify.KindVideoSubmitted, notify.VideoSubmittedEvent{VideoID: 3, Title: "t"})
	require.NoError(t, err)
	return body
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	target := &flakyTarget{}
	d, ack := delivery(t, submittedBody(t), false)
	handleDelivery(context.Background(), d, target)

	assert.True(t, ack.acked)
	require.Len(t, target.sent, 1)
	assert.Equal(t, uint64(3), target.sent[0].VideoID)
}

func TestHandleDeliveryDropsBadMessage(t *testing.T) {
	d, ack := delivery(t, []byte("{not json"), false)
	handleDelivery(context.Background(), d, &flakyTarget{})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDeliveryRequeuesOnce(t *testing.T) {
	target := &flakyTarget{err: errors.New("discord down")}

	d, ack := delivery(t, submittedBody(t), false)
	handleDelivery(context.Background(), d, target)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)

	d, ack = delivery(t, submittedBody(t), true)
	handleDelivery(context.Background(), d, target)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
