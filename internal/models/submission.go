package models

import "time"

// SubmissionStatus is the lifecycle of a submission.
type SubmissionStatus string

// Possible submission statuses.
const (
	SubmissionStatusPending   SubmissionStatus = "PENDING"
	SubmissionStatusCompleted SubmissionStatus = "COMPLETED"
)

// Submission is the materialized per-student record of an activity. Rows are
// created only by the enrollment/activity cascades, never directly by
// students; a student submitting merely flips an existing row to COMPLETED.
type Submission struct {
	ID          string           `db:"id" json:"id"`
	StudentID   string           `db:"student_id" json:"student_id"`
	ActivityID  string           `db:"activity_id" json:"activity_id"`
	Status      SubmissionStatus `db:"status" json:"status"`
	Grade       *float64         `db:"grade" json:"grade,omitempty"`
	Content     *string          `db:"content" json:"content,omitempty"`
	FileURL     *string          `db:"file_url" json:"file_url,omitempty"`
	SubmittedAt *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
}

// SubmissionDetail enriches a submission with student and activity context.
type SubmissionDetail struct {
	Submission
	StudentName   string `db:"student_name" json:"student_name"`
	ActivityTitle string `db:"activity_title" json:"activity_title"`
}

// SubmissionsByStatus splits a teacher-wide listing into completed and
// still-pending work.
type SubmissionsByStatus struct {
	Completed []SubmissionDetail `json:"completed"`
	Pending   []SubmissionDetail `json:"pending"`
}

// SubmissionsByGrade splits an activity's submissions into graded and
// not-yet-graded.
type SubmissionsByGrade struct {
	Graded  []SubmissionDetail `json:"graded"`
	Pending []SubmissionDetail `json:"pending"`
}

// StudentSubmission pairs a submission with its activity for student-facing
// listings.
type StudentSubmission struct {
	Submission
	ActivityTitle string       `db:"activity_title" json:"activity_title"`
	ActivityType  ActivityType `db:"activity_type" json:"activity_type"`
	DueDate       *time.Time   `db:"due_date" json:"due_date,omitempty"`
}
