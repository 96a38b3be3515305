package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	"github.com/notoria-edu/classroom-api/pkg/database"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type activityRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, activity *models.Activity) error
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Activity, error)
	ListByClassroomWithStudentState(ctx context.Context, classroomID, studentID string) ([]models.StudentActivity, error)
	Update(ctx context.Context, activity *models.Activity) (int64, error)
	Delete(ctx context.Context, id, teacherID string) (int64, error)
}

type enrolledStudentIDLister interface {
	ListStudentIDsByClassroomTx(ctx context.Context, tx *sqlx.Tx, classroomID string) ([]string, error)
}

type pendingSubmissionCreator interface {
	BulkCreatePendingTx(ctx context.Context, tx *sqlx.Tx, seeds []repository.SubmissionSeed) error
}

// ActivityService manages classroom activities. Creating an activity
// materializes a pending submission for every currently enrolled student in
// the same transaction as the activity insert.
type ActivityService struct {
	db          *sqlx.DB
	repo        activityRepository
	enrollments enrolledStudentIDLister
	submissions pendingSubmissionCreator
	access      *AccessService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewActivityService constructs an ActivityService instance.
func NewActivityService(db *sqlx.DB, repo activityRepository, enrollments enrolledStudentIDLister, submissions pendingSubmissionCreator, access *AccessService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ActivityService{
		db:          db,
		repo:        repo,
		enrollments: enrollments,
		submissions: submissions,
		access:      access,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Create posts an activity to a classroom owned by the calling teacher and
// seeds a pending submission per enrolled student. An empty classroom is not
// an error; the enrollment cascade backfills later joiners.
func (s *ActivityService) Create(ctx context.Context, classroomID, teacherID string, req models.CreateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}

	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		ClassroomID: classroomID,
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		DueDate:     req.DueDate,
		FileURL:     req.FileURL,
	}

	var seeded int
	err := database.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, activity); err != nil {
			return err
		}

		studentIDs, err := s.enrollments.ListStudentIDsByClassroomTx(ctx, tx, classroomID)
		if err != nil {
			return err
		}
		seeds := make([]repository.SubmissionSeed, 0, len(studentIDs))
		for _, studentID := range studentIDs {
			seeds = append(seeds, repository.SubmissionSeed{StudentID: studentID, ActivityID: activity.ID})
		}
		seeded = len(seeds)
		return s.submissions.BulkCreatePendingTx(ctx, tx, seeds)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create activity")
	}

	if seeded == 0 {
		s.logger.Warn("activity created for empty classroom", zap.String("activity_id", activity.ID), zap.String("classroom_id", classroomID))
	} else {
		s.metrics.ObserveCascade("activity_create", seeded)
		s.logger.Info("activity created", zap.String("activity_id", activity.ID), zap.Int("submissions_seeded", seeded))
	}
	return activity, nil
}

// ListByClassroom returns the activities of a classroom owned by the calling
// teacher.
func (s *ActivityService) ListByClassroom(ctx context.Context, classroomID, teacherID string) ([]models.Activity, error) {
	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}

	activities, err := s.repo.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, nil
}

// Get returns one activity owned by the calling teacher.
func (s *ActivityService) Get(ctx context.Context, activityID, teacherID string) (*models.Activity, error) {
	return s.access.ActivityOwnedBy(ctx, activityID, teacherID)
}

// Update applies a partial update to an activity owned by the calling
// teacher.
func (s *ActivityService) Update(ctx context.Context, activityID, teacherID string, req models.UpdateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}

	activity, err := s.access.ActivityOwnedBy(ctx, activityID, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Type != nil {
		activity.Type = *req.Type
	}
	if req.DueDate != nil {
		activity.DueDate = req.DueDate
	}
	if req.FileURL != nil {
		activity.FileURL = req.FileURL
	}

	affected, err := s.repo.Update(ctx, activity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update activity")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}

	return activity, nil
}

// Delete removes an activity owned by the calling teacher together with its
// submissions.
func (s *ActivityService) Delete(ctx context.Context, activityID, teacherID string) error {
	affected, err := s.repo.Delete(ctx, activityID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete activity")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	s.logger.Info("activity deleted", zap.String("activity_id", activityID), zap.String("teacher_id", teacherID))
	return nil
}

// ListForStudent returns a classroom's activities with the calling student's
// submission state. The student must be enrolled.
func (s *ActivityService) ListForStudent(ctx context.Context, classroomID, studentID string) ([]models.StudentActivity, error) {
	if _, err := s.access.EnrollmentOf(ctx, studentID, classroomID); err != nil {
		return nil, err
	}

	activities, err := s.repo.ListByClassroomWithStudentState(ctx, classroomID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, nil
}
