package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type submissionRepository interface {
	FindWithOwner(ctx context.Context, id string) (*models.Submission, string, error)
	FindDetailByIDForTeacher(ctx context.Context, id, teacherID string) (*models.SubmissionDetail, error)
	UpdateGrade(ctx context.Context, id string, grade float64) (*models.Submission, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.SubmissionDetail, error)
	ListByActivity(ctx context.Context, activityID string) ([]models.SubmissionDetail, error)
	ListByClassroomAndStudent(ctx context.Context, classroomID, studentID, teacherID string) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubmission, error)
	ListByStudentAndClassroom(ctx context.Context, studentID, classroomID string) ([]models.StudentSubmission, error)
	Submit(ctx context.Context, studentID, activityID string, content, fileURL *string) (int64, error)
	ResetOwn(ctx context.Context, studentID, activityID string) (int64, error)
}

// SubmissionService manages the materialized submission rows. Students never
// create rows here; they flip rows the cascades materialized.
type SubmissionService struct {
	repo      submissionRepository
	access    *AccessService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(repo submissionRepository, access *AccessService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{repo: repo, access: access, validator: validate, logger: logger}
}

// Grade sets the grade on a submission. A submission that does not exist and
// one whose activity belongs to another teacher are both answered with
// Forbidden, so callers cannot probe for foreign submission ids.
func (s *SubmissionService) Grade(ctx context.Context, submissionID, teacherID string, req models.GradeSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	_, ownerID, err := s.repo.FindWithOwner(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot grade this submission")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if ownerID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot grade this submission")
	}

	graded, err := s.repo.UpdateGrade(ctx, submissionID, *req.Grade)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}

	s.logger.Info("submission graded", zap.String("submission_id", submissionID), zap.Float64("grade", *req.Grade))
	return graded, nil
}

// Get returns one submission with context, scoped to the calling teacher.
func (s *SubmissionService) Get(ctx context.Context, submissionID, teacherID string) (*models.SubmissionDetail, error) {
	detail, err := s.repo.FindDetailByIDForTeacher(ctx, submissionID, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return detail, nil
}

// ListByTeacher returns every submission across the calling teacher's
// activities, split by completion.
func (s *SubmissionService) ListByTeacher(ctx context.Context, teacherID string) (*models.SubmissionsByStatus, error) {
	submissions, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}

	buckets := &models.SubmissionsByStatus{
		Completed: []models.SubmissionDetail{},
		Pending:   []models.SubmissionDetail{},
	}
	for _, submission := range submissions {
		if submission.Status == models.SubmissionStatusCompleted {
			buckets.Completed = append(buckets.Completed, submission)
		} else {
			buckets.Pending = append(buckets.Pending, submission)
		}
	}
	return buckets, nil
}

// ListByActivity returns the submissions for one activity owned by the
// calling teacher, split by grading state.
func (s *SubmissionService) ListByActivity(ctx context.Context, activityID, teacherID string) (*models.SubmissionsByGrade, error) {
	if _, err := s.access.ActivityOwnedBy(ctx, activityID, teacherID); err != nil {
		return nil, err
	}

	submissions, err := s.repo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}

	buckets := &models.SubmissionsByGrade{
		Graded:  []models.SubmissionDetail{},
		Pending: []models.SubmissionDetail{},
	}
	for _, submission := range submissions {
		if submission.Grade != nil {
			buckets.Graded = append(buckets.Graded, submission)
		} else {
			buckets.Pending = append(buckets.Pending, submission)
		}
	}
	return buckets, nil
}

// ListByClassroomAndStudent returns one student's submissions for a
// classroom, both owned by the calling teacher.
func (s *SubmissionService) ListByClassroomAndStudent(ctx context.Context, classroomID, studentID, teacherID string) ([]models.Submission, error) {
	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}
	if _, err := s.access.StudentOwnedBy(ctx, studentID, teacherID); err != nil {
		return nil, err
	}

	submissions, err := s.repo.ListByClassroomAndStudent(ctx, classroomID, studentID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// Submit completes the calling student's submission for an activity. At
// least one of content or file reference must be present. A missing row
// means the student was never enrolled when the cascades ran, answered as
// NotFound.
func (s *SubmissionService) Submit(ctx context.Context, studentID, activityID string, req models.SubmitActivityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if req.Content == nil && req.FileURL == nil {
		return appErrors.Clone(appErrors.ErrValidation, "content or file_url is required")
	}

	affected, err := s.repo.Submit(ctx, studentID, activityID, req.Content, req.FileURL)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit activity")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}

	s.logger.Info("activity submitted", zap.String("student_id", studentID), zap.String("activity_id", activityID))
	return nil
}

// ListMine returns all of the calling student's submissions.
func (s *SubmissionService) ListMine(ctx context.Context, studentID string) ([]models.StudentSubmission, error) {
	submissions, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// ListMineByClassroom returns the calling student's submissions for one
// classroom they are enrolled in.
func (s *SubmissionService) ListMineByClassroom(ctx context.Context, studentID, classroomID string) ([]models.StudentSubmission, error) {
	if _, err := s.access.EnrollmentOf(ctx, studentID, classroomID); err != nil {
		return nil, err
	}

	submissions, err := s.repo.ListByStudentAndClassroom(ctx, studentID, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// ClearOwn resets the calling student's submission for an activity back to
// PENDING, dropping content, file reference, timestamp and grade. The row is
// kept because submission rows mirror membership.
func (s *SubmissionService) ClearOwn(ctx context.Context, studentID, activityID string) error {
	affected, err := s.repo.ResetOwn(ctx, studentID, activityID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear submission")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	return nil
}
