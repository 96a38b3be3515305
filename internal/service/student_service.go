package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Student, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) (int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id, teacherID string) (int64, error)
}

type studentClassroomRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Classroom, error)
}

type classmateRepository interface {
	ListClassmates(ctx context.Context, classroomID, excludeStudentID string) ([]models.StudentInfo, error)
}

type welcomeNotifier interface {
	EnqueueWelcome(email WelcomeEmail)
}

// StudentService manages student accounts. Teachers create and administer
// students; students operate on their own record and enrollments.
type StudentService struct {
	repo          studentRepository
	classrooms    studentClassroomRepository
	classmates    classmateRepository
	access        *AccessService
	notifications welcomeNotifier
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, classrooms studentClassroomRepository, classmates classmateRepository, access *AccessService, notifications welcomeNotifier, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		repo:          repo,
		classrooms:    classrooms,
		classmates:    classmates,
		access:        access,
		notifications: notifications,
		validator:     validate,
		logger:        logger,
	}
}

// Create registers a student under the calling teacher. A temporary password
// is generated, stored hashed and delivered by email.
func (s *StudentService) Create(ctx context.Context, teacher *models.Teacher, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		TeacherID:    teacher.ID,
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.notifications.EnqueueWelcome(WelcomeEmail{
		StudentName:  student.Name,
		StudentEmail: student.Email,
		TeacherName:  teacher.Name,
		TempPassword: tempPassword,
	})

	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("teacher_id", teacher.ID))
	return student, nil
}

// List returns the calling teacher's students.
func (s *StudentService) List(ctx context.Context, teacherID string) ([]models.Student, error) {
	students, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one of the calling teacher's students.
func (s *StudentService) Get(ctx context.Context, studentID, teacherID string) (*models.Student, error) {
	return s.access.StudentOwnedBy(ctx, studentID, teacherID)
}

// Update applies a partial update to one of the calling teacher's students.
func (s *StudentService) Update(ctx context.Context, studentID, teacherID string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.access.StudentOwnedBy(ctx, studentID, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}

	affected, err := s.repo.Update(ctx, student)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	return student, nil
}

// Delete removes one of the calling teacher's students. Enrollments,
// submissions, conversations and messages go with the row via ON DELETE
// CASCADE.
func (s *StudentService) Delete(ctx context.Context, studentID, teacherID string) error {
	affected, err := s.repo.Delete(ctx, studentID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student deleted", zap.String("student_id", studentID), zap.String("teacher_id", teacherID))
	return nil
}

// ChangePassword updates the calling student's own password.
func (s *StudentService) ChangePassword(ctx context.Context, studentID string, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, studentID, string(newHash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	return nil
}

// ListClassrooms returns the classrooms the calling student is enrolled in.
func (s *StudentService) ListClassrooms(ctx context.Context, studentID string) ([]models.Classroom, error) {
	classrooms, err := s.classrooms.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return classrooms, nil
}

// GetClassroom returns one classroom the calling student is enrolled in.
func (s *StudentService) GetClassroom(ctx context.Context, classroomID, studentID string) (*models.Classroom, error) {
	return s.access.ClassroomForStudent(ctx, classroomID, studentID)
}

// ListClassmates returns the other students of a classroom the caller is
// enrolled in.
func (s *StudentService) ListClassmates(ctx context.Context, classroomID, studentID string) ([]models.StudentInfo, error) {
	if _, err := s.access.EnrollmentOf(ctx, studentID, classroomID); err != nil {
		return nil, err
	}

	classmates, err := s.classmates.ListClassmates(ctx, classroomID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classmates")
	}
	return classmates, nil
}

const (
	tempPasswordDigits  = "0123456789"
	tempPasswordLetters = "abcdefghijklmnopqrstuvwxyz"
)

// generateTempPassword builds a pronounceable-enough first password of the
// form 1234@abcd.
func generateTempPassword() (string, error) {
	buf := make([]byte, 0, 9)
	for i := 0; i < 4; i++ {
		c, err := randomChar(tempPasswordDigits)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	buf = append(buf, '@')
	for i := 0; i < 4; i++ {
		c, err := randomChar(tempPasswordLetters)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	return string(buf), nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
