package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// ConversationRepository handles persistence of conversations and messages.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository constructs the repository.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindByPair returns the conversation for a (teacher, student) pair.
func (r *ConversationRepository) FindByPair(ctx context.Context, teacherID, studentID string) (*models.Conversation, error) {
	const query = `SELECT id, teacher_id, student_id, created_at FROM conversations WHERE teacher_id = $1 AND student_id = $2`
	var conversation models.Conversation
	if err := r.db.GetContext(ctx, &conversation, query, teacherID, studentID); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// FindByID returns a conversation by id.
func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	const query = `SELECT id, teacher_id, student_id, created_at FROM conversations WHERE id = $1`
	var conversation models.Conversation
	if err := r.db.GetContext(ctx, &conversation, query, id); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Create persists a new conversation. The unique (teacher_id, student_id)
// constraint makes concurrent first messages race to a single row; callers
// should treat a unique violation as "use the existing row".
func (r *ConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.NewString()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO conversations (id, teacher_id, student_id, created_at)
        VALUES (:id, :teacher_id, :student_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, conversation); err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's conversations with the student peer.
func (r *ConversationRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ConversationDetail, error) {
	const query = `SELECT c.id, c.teacher_id, c.student_id, c.created_at, s.name AS peer_name, s.email AS peer_email
        FROM conversations c
        JOIN students s ON s.id = c.student_id
        WHERE c.teacher_id = $1
        ORDER BY c.created_at DESC`
	var conversations []models.ConversationDetail
	if err := r.db.SelectContext(ctx, &conversations, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher conversations: %w", err)
	}
	return conversations, nil
}

// ListByStudent returns a student's conversations with the teacher peer.
func (r *ConversationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ConversationDetail, error) {
	const query = `SELECT c.id, c.teacher_id, c.student_id, c.created_at, t.name AS peer_name, t.email AS peer_email
        FROM conversations c
        JOIN teachers t ON t.id = c.teacher_id
        WHERE c.student_id = $1
        ORDER BY c.created_at DESC`
	var conversations []models.ConversationDetail
	if err := r.db.SelectContext(ctx, &conversations, query, studentID); err != nil {
		return nil, fmt.Errorf("list student conversations: %w", err)
	}
	return conversations, nil
}

// CreateMessage appends a message to a conversation.
func (r *ConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, conversation_id, sender_id, sender_role, content, created_at)
        VALUES (:id, :conversation_id, :sender_id, :sender_role, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages oldest first.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	const query = `SELECT id, conversation_id, sender_id, sender_role, content, created_at
        FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
