package models

import "time"

// Classroom is owned by exactly one teacher. Students join it through
// enrollments.
type Classroom struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomSummary is the list projection with the enrolled student count.
type ClassroomSummary struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	StudentCount int    `db:"student_count" json:"student_count"`
}
