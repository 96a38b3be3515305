package models

import "time"

// RegisterTeacherRequest payload for creating a teacher account.
type RegisterTeacherRequest struct {
	Name                   string `json:"name" validate:"required,min=2,max=120"`
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=6"`
	Phone                  string `json:"phone" validate:"omitempty,max=32"`
	Discipline             string `json:"discipline" validate:"omitempty,max=120"`
	EducationalInstitution string `json:"educational_institution" validate:"omitempty,max=180"`
	Experience             string `json:"experience" validate:"omitempty,max=500"`
}

// UpdateTeacherProfileRequest payload for partial profile updates. Nil fields
// are left untouched. Changing the password requires the current one.
type UpdateTeacherProfileRequest struct {
	Name                   *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email                  *string `json:"email" validate:"omitempty,email"`
	Phone                  *string `json:"phone" validate:"omitempty,max=32"`
	Discipline             *string `json:"discipline" validate:"omitempty,max=120"`
	EducationalInstitution *string `json:"educational_institution" validate:"omitempty,max=180"`
	Experience             *string `json:"experience" validate:"omitempty,max=500"`
	Password               *string `json:"password" validate:"omitempty,min=6"`
	OldPassword            *string `json:"old_password" validate:"required_with=Password"`
}

// CreateStudentRequest payload for a teacher registering a student. The
// password is generated server-side and delivered by email.
type CreateStudentRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest payload for partial student updates.
type UpdateStudentRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CreateClassroomRequest payload for creating a classroom.
type CreateClassroomRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// UpdateClassroomRequest payload for renaming a classroom.
type UpdateClassroomRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// EnrollStudentRequest payload for adding a student to a classroom.
type EnrollStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
}

// UpdateScoreRequest payload for setting a student's classroom score.
type UpdateScoreRequest struct {
	Score *float64 `json:"score" validate:"required,gte=0,lte=100"`
}

// CreateActivityRequest payload for posting an activity to a classroom.
type CreateActivityRequest struct {
	Title       string       `json:"title" validate:"required,min=2,max=180"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	Type        ActivityType `json:"type" validate:"required,oneof=EXERCISE COMPLEMENTARY_MATERIAL ASSIGNMENT"`
	DueDate     *time.Time   `json:"due_date"`
	FileURL     *string      `json:"file_url" validate:"omitempty,url"`
}

// UpdateActivityRequest payload for partial activity updates.
type UpdateActivityRequest struct {
	Title       *string       `json:"title" validate:"omitempty,min=2,max=180"`
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	Type        *ActivityType `json:"type" validate:"omitempty,oneof=EXERCISE COMPLEMENTARY_MATERIAL ASSIGNMENT"`
	DueDate     *time.Time    `json:"due_date"`
	FileURL     *string       `json:"file_url" validate:"omitempty,url"`
}

// GradeSubmissionRequest payload for grading a submission.
type GradeSubmissionRequest struct {
	Grade *float64 `json:"grade" validate:"required,gte=0,lte=100"`
}

// SubmitActivityRequest payload for a student completing an activity. At
// least one of content or file_url must be present.
type SubmitActivityRequest struct {
	Content *string `json:"content" validate:"omitempty,max=10000"`
	FileURL *string `json:"file_url" validate:"omitempty,url"`
}

// SendMessageRequest payload for sending a chat message. StudentID is
// required when the sender is a teacher and ignored otherwise; a student's
// messages always go to their own teacher.
type SendMessageRequest struct {
	StudentID string `json:"student_id" validate:"omitempty,uuid4"`
	Content   string `json:"content" validate:"required,min=1,max=5000"`
}
