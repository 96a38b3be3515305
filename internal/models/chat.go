package models

import "time"

// Conversation links a teacher and one of their students. The
// (teacher_id, student_id) pair is unique; rows are created lazily on the
// first message.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConversationDetail adds the peer's identity from the caller's point of
// view.
type ConversationDetail struct {
	Conversation
	PeerName  string `db:"peer_name" json:"peer_name"`
	PeerEmail string `db:"peer_email" json:"peer_email"`
}

// Message belongs to exactly one conversation.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	SenderRole     Role      `db:"sender_role" json:"sender_role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
