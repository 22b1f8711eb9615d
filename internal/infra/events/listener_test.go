package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestParsePayload(t *testing.T) {
	ev := parsePayload(`{"id":"7f1c","op":"UPDATE"}`)
	assert.Equal(t, "7f1c", ev.AppointmentID)
	assert.Equal(t, "UPDATE", ev.Operation)

	raw := parsePayload("7f1c")
	assert.Equal(t, "7f1c", raw.AppointmentID)
	assert.Empty(t, raw.Operation)
}

func TestListener_PublishFansOut(t *testing.T) {
	l := NewListener("", "appointments_changed", nopLogger{})

	a, unsubA := l.Subscribe()
	b, unsubB := l.Subscribe()
	defer unsubA()
	defer unsubB()

	l.publish(Event{AppointmentID: "1", Operation: "INSERT"})

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "1", (<-a).AppointmentID)
	assert.Equal(t, "INSERT", (<-b).Operation)
}

func TestListener_UnsubscribeClosesChannel(t *testing.T) {
	l := NewListener("", "appointments_changed", nopLogger{})

	ch, unsub := l.Subscribe()
	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	l.publish(Event{Resync: true})
}

func TestListener_SlowSubscriberDoesNotBlock(t *testing.T) {
	l := NewListener("", "appointments_changed", nopLogger{})
	ch, unsub := l.Subscribe()
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		l.publish(Event{Resync: true})
	}
	assert.Len(t, ch, subscriberBuffer)
}
