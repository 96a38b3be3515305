package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/pkg/config"
	"github.com/notoria-edu/classroom-api/pkg/mailer"
)

type captureMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
	received chan mailer.Message
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{received: make(chan mailer.Message, 8)}
}

func (m *captureMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	m.received <- msg
	return nil
}

func TestNotificationServiceDeliversWelcomeEmail(t *testing.T) {
	capture := newCaptureMailer()
	svc := NewNotificationService(capture, config.MailConfig{Workers: 1}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	svc.EnqueueWelcome(WelcomeEmail{
		StudentName:  "Kid One",
		StudentEmail: "kid@school.test",
		TeacherName:  "Anna",
		TempPassword: "1234@abcd",
	})

	select {
	case msg := <-capture.received:
		assert.Equal(t, "kid@school.test", msg.ToAddress)
		assert.Contains(t, msg.Text, "1234@abcd")
		assert.Contains(t, msg.HTML, "Anna")
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not delivered")
	}
}

func TestNotificationServiceEscapesHTML(t *testing.T) {
	html := welcomeHTML(WelcomeEmail{
		StudentName:  "<script>alert(1)</script>",
		StudentEmail: "kid@school.test",
		TeacherName:  "Anna & Bob",
		TempPassword: "1234@abcd",
	})
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Anna &amp; Bob")
}

func TestNotificationServiceEnqueueBeforeStart(t *testing.T) {
	capture := newCaptureMailer()
	svc := NewNotificationService(capture, config.MailConfig{Workers: 1}, zap.NewNop())

	// must not panic or block; the failure is logged and dropped
	svc.EnqueueWelcome(WelcomeEmail{StudentEmail: "kid@school.test"})

	require.Empty(t, capture.messages)
}
