package service

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/pkg/config"
	"github.com/notoria-edu/classroom-api/pkg/jobs"
	"github.com/notoria-edu/classroom-api/pkg/mailer"
)

// WelcomeEmail carries everything needed to greet a freshly created student.
type WelcomeEmail struct {
	StudentName  string
	StudentEmail string
	TeacherName  string
	TempPassword string
}

// NotificationService delivers transactional email off the request path. The
// welcome mail for a new student is enqueued after the account commit, so a
// mail outage never fails student creation.
type NotificationService struct {
	mailer mailer.Mailer
	queue  *jobs.Queue[WelcomeEmail]
	logger *zap.Logger
}

// NewNotificationService constructs the service and its backing queue.
func NewNotificationService(m mailer.Mailer, cfg config.MailConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mailer: m, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.Config{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// EnqueueWelcome schedules the welcome email for a new student. Failures are
// logged, never propagated.
func (s *NotificationService) EnqueueWelcome(email WelcomeEmail) {
	err := s.queue.Enqueue(jobs.Task[WelcomeEmail]{ID: uuid.NewString(), Payload: email})
	if err != nil {
		s.logger.Warn("failed to enqueue welcome email", zap.String("student_email", email.StudentEmail), zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, task jobs.Task[WelcomeEmail]) error {
	return s.sendWelcome(ctx, task.Payload)
}

func (s *NotificationService) sendWelcome(ctx context.Context, payload WelcomeEmail) error {
	msg := mailer.Message{
		ToName:    payload.StudentName,
		ToAddress: payload.StudentEmail,
		Subject:   "Welcome to Notoria",
		Text: fmt.Sprintf("Hello %s!\n\n%s added you to their class on Notoria.\n\nYour login: %s\nYour temporary password: %s\n\nPlease sign in and change your password.",
			payload.StudentName, payload.TeacherName, payload.StudentEmail, payload.TempPassword),
		HTML: welcomeHTML(payload),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	s.logger.Info("welcome email sent", zap.String("student_email", payload.StudentEmail))
	return nil
}

func welcomeHTML(payload WelcomeEmail) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Notoria, %s!</h2>
  <p>%s added you to their class.</p>
  <p>Use the credentials below for your first sign in:</p>
  <ul>
    <li><strong>Login:</strong> %s</li>
    <li><strong>Temporary password:</strong> <code>%s</code></li>
  </ul>
  <p>Please change your password after signing in.</p>
</div>`,
		html.EscapeString(payload.StudentName),
		html.EscapeString(payload.TeacherName),
		html.EscapeString(payload.StudentEmail),
		html.EscapeString(payload.TempPassword))
}
