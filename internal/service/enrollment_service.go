package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	"github.com/notoria-edu/classroom-api/pkg/database"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type enrollmentRepository interface {
	FindByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (*models.Enrollment, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id string) error
	UpdateScore(ctx context.Context, studentID, classroomID string, score float64) (int64, error)
	ListStudentsByClassroom(ctx context.Context, classroomID string) ([]models.EnrolledStudent, error)
}

type activityIDLister interface {
	ListIDsByClassroomTx(ctx context.Context, tx *sqlx.Tx, classroomID string) ([]string, error)
}

type submissionCascader interface {
	BulkCreatePendingTx(ctx context.Context, tx *sqlx.Tx, seeds []repository.SubmissionSeed) error
	DeleteByClassroomStudentTx(ctx context.Context, tx *sqlx.Tx, studentID, classroomID string) error
}

var errAlreadyEnrolled = errors.New("already enrolled")

// EnrollmentService manages classroom membership. Enrolling and unenrolling
// run their submission cascades in the same transaction as the membership
// write, so the "submission rows mirror membership" invariant never holds
// partially.
type EnrollmentService struct {
	db          *sqlx.DB
	repo        enrollmentRepository
	activities  activityIDLister
	submissions submissionCascader
	cache       classroomCache
	access      *AccessService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(db *sqlx.DB, repo enrollmentRepository, activities activityIDLister, submissions submissionCascader, cache classroomCache, access *AccessService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{
		db:          db,
		repo:        repo,
		activities:  activities,
		submissions: submissions,
		cache:       cache,
		access:      access,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Enroll adds a student to a classroom and materializes a pending submission
// for every existing activity. Both the student and classroom must belong to
// the calling teacher. Losing an insert race against a concurrent enroll is
// not an error: the winner's cascade already covered the pair.
func (s *EnrollmentService) Enroll(ctx context.Context, classroomID, teacherID string, req models.EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}
	if _, err := s.access.StudentOwnedBy(ctx, req.StudentID, teacherID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByStudentAndClassroom(ctx, req.StudentID, classroomID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student is already enrolled in this classroom")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	enrollment := &models.Enrollment{StudentID: req.StudentID, ClassroomID: classroomID}
	var seeded int
	err := database.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, enrollment); err != nil {
			if repository.IsUniqueViolation(err) {
				return errAlreadyEnrolled
			}
			return err
		}

		activityIDs, err := s.activities.ListIDsByClassroomTx(ctx, tx, classroomID)
		if err != nil {
			return err
		}
		seeds := make([]repository.SubmissionSeed, 0, len(activityIDs))
		for _, activityID := range activityIDs {
			seeds = append(seeds, repository.SubmissionSeed{StudentID: req.StudentID, ActivityID: activityID})
		}
		seeded = len(seeds)
		return s.submissions.BulkCreatePendingTx(ctx, tx, seeds)
	})
	if err != nil {
		if errors.Is(err, errAlreadyEnrolled) {
			s.logger.Info("student already enrolled", zap.String("student_id", req.StudentID), zap.String("classroom_id", classroomID))
			existing, findErr := s.repo.FindByStudentAndClassroom(ctx, req.StudentID, classroomID)
			if findErr != nil {
				return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
			}
			return existing, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	s.cache.InvalidateTeacher(ctx, teacherID)
	s.metrics.ObserveCascade("enroll", seeded)
	s.logger.Info("student enrolled", zap.String("student_id", req.StudentID), zap.String("classroom_id", classroomID), zap.Int("submissions_seeded", seeded))
	return enrollment, nil
}

// Unenroll removes a student from a classroom together with the student's
// submissions for that classroom's activities.
func (s *EnrollmentService) Unenroll(ctx context.Context, classroomID, studentID, teacherID string) error {
	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return err
	}
	enrollment, err := s.access.EnrollmentOf(ctx, studentID, classroomID)
	if err != nil {
		return err
	}

	err = database.WithinTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.submissions.DeleteByClassroomStudentTx(ctx, tx, studentID, classroomID); err != nil {
			return err
		}
		return s.repo.DeleteTx(ctx, tx, enrollment.ID)
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll student")
	}

	s.cache.InvalidateTeacher(ctx, teacherID)
	s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("classroom_id", classroomID))
	return nil
}

// UpdateScore sets the classroom score for an enrolled student.
func (s *EnrollmentService) UpdateScore(ctx context.Context, classroomID, studentID, teacherID string, req models.UpdateScoreRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}

	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return err
	}
	if _, err := s.access.StudentOwnedBy(ctx, studentID, teacherID); err != nil {
		return err
	}

	affected, err := s.repo.UpdateScore(ctx, studentID, classroomID, *req.Score)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update score")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found in this classroom")
	}
	return nil
}

// ListStudents returns the roster of a classroom owned by the calling
// teacher.
func (s *EnrollmentService) ListStudents(ctx context.Context, classroomID, teacherID string) ([]models.EnrolledStudent, error) {
	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}

	students, err := s.repo.ListStudentsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}
	return students, nil
}

// StudentInClassroom returns one enrolled student with their score.
func (s *EnrollmentService) StudentInClassroom(ctx context.Context, classroomID, studentID, teacherID string) (*models.EnrolledStudent, error) {
	if _, err := s.access.ClassroomOwnedBy(ctx, classroomID, teacherID); err != nil {
		return nil, err
	}
	student, err := s.access.StudentOwnedBy(ctx, studentID, teacherID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.access.EnrollmentOf(ctx, studentID, classroomID)
	if err != nil {
		return nil, err
	}

	return &models.EnrolledStudent{
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
		Score: enrollment.Score,
	}, nil
}
