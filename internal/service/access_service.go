package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type classroomAccessRepo interface {
	FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Classroom, error)
	FindByIDForStudent(ctx context.Context, id, studentID string) (*models.Classroom, error)
}

type studentAccessRepo interface {
	FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Student, error)
}

type activityAccessRepo interface {
	FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Activity, error)
}

type enrollmentAccessRepo interface {
	FindByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (*models.Enrollment, error)
}

// AccessService resolves ownership chains. Every lookup is scoped by the
// caller's id at the repository level, so a resource that exists but belongs
// to someone else is indistinguishable from one that does not exist: both
// come back as NotFound. No segment is ever re-queried with a relaxed
// filter.
type AccessService struct {
	classrooms  classroomAccessRepo
	students    studentAccessRepo
	activities  activityAccessRepo
	enrollments enrollmentAccessRepo
}

// NewAccessService constructs AccessService.
func NewAccessService(classrooms classroomAccessRepo, students studentAccessRepo, activities activityAccessRepo, enrollments enrollmentAccessRepo) *AccessService {
	return &AccessService{classrooms: classrooms, students: students, activities: activities, enrollments: enrollments}
}

// ClassroomOwnedBy proves a classroom belongs to the teacher.
func (s *AccessService) ClassroomOwnedBy(ctx context.Context, classroomID, teacherID string) (*models.Classroom, error) {
	classroom, err := s.classrooms.FindByIDAndTeacher(ctx, classroomID, teacherID)
	if err != nil {
		return nil, resolveErr(err, "classroom not found", "failed to load classroom")
	}
	return classroom, nil
}

// StudentOwnedBy proves a student belongs to the teacher.
func (s *AccessService) StudentOwnedBy(ctx context.Context, studentID, teacherID string) (*models.Student, error) {
	student, err := s.students.FindByIDAndTeacher(ctx, studentID, teacherID)
	if err != nil {
		return nil, resolveErr(err, "student not found", "failed to load student")
	}
	return student, nil
}

// ActivityOwnedBy proves an activity belongs to the teacher.
func (s *AccessService) ActivityOwnedBy(ctx context.Context, activityID, teacherID string) (*models.Activity, error) {
	activity, err := s.activities.FindByIDAndTeacher(ctx, activityID, teacherID)
	if err != nil {
		return nil, resolveErr(err, "activity not found", "failed to load activity")
	}
	return activity, nil
}

// EnrollmentOf proves the student holds a membership edge for the classroom.
func (s *AccessService) EnrollmentOf(ctx context.Context, studentID, classroomID string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByStudentAndClassroom(ctx, studentID, classroomID)
	if err != nil {
		return nil, resolveErr(err, "student not found in this classroom", "failed to load enrollment")
	}
	return enrollment, nil
}

// ClassroomForStudent proves a classroom is visible to the enrolled student.
func (s *AccessService) ClassroomForStudent(ctx context.Context, classroomID, studentID string) (*models.Classroom, error) {
	classroom, err := s.classrooms.FindByIDForStudent(ctx, classroomID, studentID)
	if err != nil {
		return nil, resolveErr(err, "classroom not found", "failed to load classroom")
	}
	return classroom, nil
}

func resolveErr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}
