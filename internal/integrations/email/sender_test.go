package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestNewSendGridSender_RequiresAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(Config{FromEmail: "salon@example.com"}, nopLogger{}))
}

func TestSendGridSender_NilReceiver(t *testing.T) {
	var s *SendGridSender
	_, err := s.Send(context.Background(), Message{To: "jean@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendGridSender_EmptyRecipient(t *testing.T) {
	s := NewSendGridSender(Config{APIKey: "SG.key", FromEmail: "salon@example.com"}, nopLogger{})
	require.NotNil(t, s)

	_, err := s.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestBuildMail(t *testing.T) {
	m := buildMail("Salon", "salon@example.com", Message{
		To:      "jean@example.com",
		ToName:  "Jean",
		Subject: "Confirmation",
		Body:    "Bonjour Jean",
	})

	assert.Equal(t, "salon@example.com", m.From.Address)
	assert.Equal(t, "Confirmation", m.Subject)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "jean@example.com", m.Personalizations[0].To[0].Address)
	require.NotEmpty(t, m.Content)
	assert.Equal(t, "Bonjour Jean", m.Content[0].Value)
}

func TestStubSender(t *testing.T) {
	res, err := NewStubSender(nopLogger{}).Send(context.Background(), Message{To: "jean@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Simulated)
}
