package models

import "time"

// Enrollment is the membership edge between a student and a classroom. The
// (student_id, classroom_id) pair is unique and may only reference a student
// and classroom owned by the same teacher.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	Score       *float64  `db:"score" json:"score,omitempty"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrolledStudent enriches the membership edge with student identity.
type EnrolledStudent struct {
	ID    string   `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Email string   `db:"email" json:"email"`
	Score *float64 `db:"score" json:"score,omitempty"`
}
