package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type conversationRepository interface {
	FindByPair(ctx context.Context, teacherID, studentID string) (*models.Conversation, error)
	FindByID(ctx context.Context, id string) (*models.Conversation, error)
	Create(ctx context.Context, conversation *models.Conversation) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ConversationDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ConversationDetail, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

type chatStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ChatService handles teacher-student messaging. Conversations are created
// lazily on the first message; the (teacher, student) pair is always derived
// from the sender's identity, so a student can only ever reach their own
// teacher.
type ChatService struct {
	repo      conversationRepository
	students  chatStudentRepository
	access    *AccessService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs a ChatService instance.
func NewChatService(repo conversationRepository, students chatStudentRepository, access *AccessService, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ChatService{repo: repo, students: students, access: access, validator: validate, logger: logger}
}

// SendMessage appends a message to the conversation between the sender and
// the resolved peer, creating the conversation if it does not exist yet.
func (s *ChatService) SendMessage(ctx context.Context, claims *models.JWTClaims, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	teacherID, studentID, err := s.resolvePair(ctx, claims, req)
	if err != nil {
		return nil, err
	}

	conversation, err := s.findOrCreate(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       claims.UserID,
		SenderRole:     claims.Role,
		Content:        req.Content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}

	return message, nil
}

// ListConversations returns the caller's conversations with peer identity.
func (s *ChatService) ListConversations(ctx context.Context, claims *models.JWTClaims) ([]models.ConversationDetail, error) {
	var (
		conversations []models.ConversationDetail
		err           error
	)
	switch claims.Role {
	case models.RoleTeacher:
		conversations, err = s.repo.ListByTeacher(ctx, claims.UserID)
	case models.RoleStudent:
		conversations, err = s.repo.ListByStudent(ctx, claims.UserID)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conversations")
	}
	return conversations, nil
}

// ListMessages returns a conversation's messages. Only the two parties may
// read it; everyone else sees NotFound.
func (s *ChatService) ListMessages(ctx context.Context, claims *models.JWTClaims, conversationID string) ([]models.Message, error) {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "conversation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}

	if claims.UserID != conversation.TeacherID && claims.UserID != conversation.StudentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "conversation not found")
	}

	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return messages, nil
}

func (s *ChatService) resolvePair(ctx context.Context, claims *models.JWTClaims, req models.SendMessageRequest) (teacherID, studentID string, err error) {
	switch claims.Role {
	case models.RoleTeacher:
		if req.StudentID == "" {
			return "", "", appErrors.Clone(appErrors.ErrValidation, "student_id is required")
		}
		if _, err := s.access.StudentOwnedBy(ctx, req.StudentID, claims.UserID); err != nil {
			return "", "", err
		}
		return claims.UserID, req.StudentID, nil
	case models.RoleStudent:
		student, err := s.students.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		return student.TeacherID, student.ID, nil
	default:
		return "", "", appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
}

// findOrCreate races concurrent first messages to a single conversation row.
// The loser of the insert race re-reads the winner's row.
func (s *ChatService) findOrCreate(ctx context.Context, teacherID, studentID string) (*models.Conversation, error) {
	conversation, err := s.repo.FindByPair(ctx, teacherID, studentID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}

	created := &models.Conversation{TeacherID: teacherID, StudentID: studentID}
	if err := s.repo.Create(ctx, created); err != nil {
		if repository.IsUniqueViolation(err) {
			existing, findErr := s.repo.FindByPair(ctx, teacherID, studentID)
			if findErr != nil {
				return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
			}
			return existing, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create conversation")
	}
	return created, nil
}
