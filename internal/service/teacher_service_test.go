package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers map[string]*models.Teacher // keyed by id
	byEmail  map[string]*models.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*models.Teacher), byEmail: make(map[string]*models.Teacher)}
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	m.teachers[teacher.ID] = teacher
	m.byEmail[teacher.Email] = teacher
	return nil
}

func (m *mockTeacherRepo) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if t, ok := m.byEmail[email]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if existing, ok := m.byEmail[teacher.Email]; ok && existing.ID != teacher.ID {
		return &pq.Error{Code: "23505"}
	}
	m.teachers[teacher.ID] = teacher
	m.byEmail[teacher.Email] = teacher
	return nil
}

func TestTeacherServiceRegister(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{
		Name:       "Anna Maria",
		Email:      "anna@school.test",
		Password:   "secret1",
		Discipline: "Mathematics",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.NotEqual(t, "secret1", teacher.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte("secret1")))
}

func TestTeacherServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Other", Email: "anna@school.test", Password: "secret2"})
	assertAppError(t, err, appErrors.ErrConflict.Code)
}

func TestTeacherServiceRegisterValidation(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "A", Email: "bad", Password: "x"})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestTeacherServiceUpdateProfilePartial(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{
		Name:     "Anna",
		Email:    "anna@school.test",
		Password: "secret1",
		Phone:    "12345",
	})
	require.NoError(t, err)

	newName := "Anna Updated"
	updated, err := svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Anna Updated", updated.Name)
	assert.Equal(t, "12345", updated.Phone)
	assert.Equal(t, "anna@school.test", updated.Email)
}

func TestTeacherServiceUpdateProfilePassword(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	oldPassword := "secret1"
	newPassword := "changed1"
	updated, err := svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{
		Password:    &newPassword,
		OldPassword: &oldPassword,
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("changed1")))
}

func TestTeacherServiceUpdateProfilePasswordWrongOld(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	oldPassword := "not-the-password"
	newPassword := "hijacked1"
	_, err = svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{
		Password:    &newPassword,
		OldPassword: &oldPassword,
	})
	assertAppError(t, err, appErrors.ErrForbidden.Code)

	stored, err := repo.FindByID(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestTeacherServiceUpdateProfilePasswordMissingOld(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	newPassword := "changed1"
	_, err = svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{Password: &newPassword})
	assertAppError(t, err, appErrors.ErrValidation.Code)

	stored, err := repo.FindByID(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestTeacherServiceUpdateProfileEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	newEmail := "anna.maria@school.test"
	updated, err := svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "anna.maria@school.test", updated.Email)
}

func TestTeacherServiceUpdateProfileEmailTaken(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Bruno", Email: "bruno@school.test", Password: "secret1"})
	require.NoError(t, err)
	teacher, err := svc.Register(context.Background(), models.RegisterTeacherRequest{Name: "Anna", Email: "anna@school.test", Password: "secret1"})
	require.NoError(t, err)

	takenEmail := "bruno@school.test"
	_, err = svc.UpdateProfile(context.Background(), teacher.ID, models.UpdateTeacherProfileRequest{Email: &takenEmail})
	assertAppError(t, err, appErrors.ErrConflict.Code)
}

func TestTeacherServiceProfileNotFound(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), validator.New(), zap.NewNop())

	_, err := svc.Profile(context.Background(), "missing")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}
