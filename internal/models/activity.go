package models

import "time"

// ActivityType classifies a classroom activity.
type ActivityType string

// Possible activity types.
const (
	ActivityTypeExercise              ActivityType = "EXERCISE"
	ActivityTypeComplementaryMaterial ActivityType = "COMPLEMENTARY_MATERIAL"
	ActivityTypeAssignment            ActivityType = "ASSIGNMENT"
)

// Activity is work posted to a classroom. Its teacher_id always equals the
// classroom's teacher_id.
type Activity struct {
	ID          string       `db:"id" json:"id"`
	ClassroomID string       `db:"classroom_id" json:"classroom_id"`
	TeacherID   string       `db:"teacher_id" json:"teacher_id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Type        ActivityType `db:"type" json:"type"`
	DueDate     *time.Time   `db:"due_date" json:"due_date,omitempty"`
	FileURL     *string      `db:"file_url" json:"file_url,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// StudentActivity pairs an activity with the calling student's submission
// state.
type StudentActivity struct {
	Activity
	Submission *SubmissionState `json:"submission"`
}

// SubmissionState is the per-student slice of a submission row.
type SubmissionState struct {
	Status      SubmissionStatus `db:"status" json:"status"`
	Grade       *float64         `db:"grade" json:"grade,omitempty"`
	SubmittedAt *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
}
