package testdoubles

import (
	"context"
	"testing"

	"github.com/thehangoversessions/sessionsapi/email"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

type Mailer struct {
	Messages []*email.Message
	Error    error
}

func NewMailer() *Mailer {
	return &Mailer{Messages: make([]*email.Message, 0, 2)}
}

func (m *Mailer) Send(_ context.Context, msg *email.Message) error {
	m.Messages = append(m.Messages, msg)
	return m.Error
}

func (m *Mailer) GetMessage(t *testing.T) *email.Message {
	t.Helper()

	assert.Assert(t, is.Len(m.Messages, 1))
	return m.Messages[0]
}

func (m *Mailer) AssertNoMessageSent(t *testing.T) {
	t.Helper()

	if len(m.Messages) != 0 {
		t.Fatalf("expected no messages, got: %+v", m.Messages)
	}
}
