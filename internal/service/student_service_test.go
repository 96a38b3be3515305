package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]*models.Student
	byEmail  map[string]*models.Student
	deleted  []string
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*models.Student), byEmail: make(map[string]*models.Student)}
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	m.students[student.ID] = student
	m.byEmail[student.Email] = student
	return nil
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if s, ok := m.byEmail[email]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByIDAndTeacher(ctx context.Context, id, teacherID string) (*models.Student, error) {
	if s, ok := m.students[id]; ok && s.TeacherID == teacherID {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		if s.TeacherID == teacherID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) (int64, error) {
	if _, ok := m.students[student.ID]; !ok {
		return 0, nil
	}
	m.students[student.ID] = student
	return 1, nil
}

func (m *mockStudentRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if s, ok := m.students[id]; ok {
		s.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id, teacherID string) (int64, error) {
	s, ok := m.students[id]
	if !ok || s.TeacherID != teacherID {
		return 0, nil
	}
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return 1, nil
}

type mockStudentClassroomRepo struct {
	byStudent map[string][]models.Classroom
}

func (m *mockStudentClassroomRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Classroom, error) {
	return m.byStudent[studentID], nil
}

type mockClassmateRepo struct {
	classmates map[string][]models.StudentInfo // keyed by classroomID
}

func (m *mockClassmateRepo) ListClassmates(ctx context.Context, classroomID, excludeStudentID string) ([]models.StudentInfo, error) {
	var out []models.StudentInfo
	for _, s := range m.classmates[classroomID] {
		if s.ID != excludeStudentID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockWelcomeNotifier struct {
	sent []WelcomeEmail
}

func (m *mockWelcomeNotifier) EnqueueWelcome(email WelcomeEmail) {
	m.sent = append(m.sent, email)
}

type studentServiceFixture struct {
	repo       *mockStudentRepo
	classrooms *mockStudentClassroomRepo
	classmates *mockClassmateRepo
	notifier   *mockWelcomeNotifier
	access     *accessFixture
	svc        *StudentService
}

func newStudentServiceFixture() *studentServiceFixture {
	repo := newMockStudentRepo()
	classrooms := &mockStudentClassroomRepo{byStudent: make(map[string][]models.Classroom)}
	classmates := &mockClassmateRepo{classmates: make(map[string][]models.StudentInfo)}
	notifier := &mockWelcomeNotifier{}
	accessFixture, access := newAccessFixture()
	return &studentServiceFixture{
		repo:       repo,
		classrooms: classrooms,
		classmates: classmates,
		notifier:   notifier,
		access:     accessFixture,
		svc:        NewStudentService(repo, classrooms, classmates, access, notifier, validator.New(), zap.NewNop()),
	}
}

var tempPasswordShape = regexp.MustCompile(`^[0-9]{4}@[a-z]{4}$`)

func TestStudentServiceCreate(t *testing.T) {
	f := newStudentServiceFixture()
	teacher := &models.Teacher{ID: "t1", Name: "Anna"}

	student, err := f.svc.Create(context.Background(), teacher, models.CreateStudentRequest{Name: "Kid One", Email: "kid@school.test"})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "t1", student.TeacherID)

	require.Len(t, f.notifier.sent, 1)
	welcome := f.notifier.sent[0]
	assert.Equal(t, "kid@school.test", welcome.StudentEmail)
	assert.Equal(t, "Anna", welcome.TeacherName)
	assert.Regexp(t, tempPasswordShape, welcome.TempPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(welcome.TempPassword)))
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	f := newStudentServiceFixture()
	teacher := &models.Teacher{ID: "t1", Name: "Anna"}

	_, err := f.svc.Create(context.Background(), teacher, models.CreateStudentRequest{Name: "Kid One", Email: "kid@school.test"})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), teacher, models.CreateStudentRequest{Name: "Kid Two", Email: "kid@school.test"})
	assertAppError(t, err, appErrors.ErrConflict.Code)
	assert.Len(t, f.notifier.sent, 1)
}

func TestStudentServiceUpdateForeignStudent(t *testing.T) {
	f := newStudentServiceFixture()
	f.access.addStudent("s1", "t1")

	name := "Renamed"
	_, err := f.svc.Update(context.Background(), "s1", "t2", models.UpdateStudentRequest{Name: &name})
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestStudentServiceDelete(t *testing.T) {
	f := newStudentServiceFixture()
	f.repo.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1", Email: "kid@school.test"}

	require.NoError(t, f.svc.Delete(context.Background(), "s1", "t1"))
	assert.Contains(t, f.repo.deleted, "s1")

	err := f.svc.Delete(context.Background(), "s1", "t1")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestStudentServiceChangePassword(t *testing.T) {
	f := newStudentServiceFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1", PasswordHash: string(hash)}

	err = f.svc.ChangePassword(context.Background(), "s1", models.ChangePasswordRequest{OldPassword: "old-pass", NewPassword: "new-pass"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.repo.students["s1"].PasswordHash), []byte("new-pass")))
}

func TestStudentServiceChangePasswordWrongOld(t *testing.T) {
	f := newStudentServiceFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1", PasswordHash: string(hash)}

	err = f.svc.ChangePassword(context.Background(), "s1", models.ChangePasswordRequest{OldPassword: "guess", NewPassword: "new-pass"})
	assertAppError(t, err, appErrors.ErrForbidden.Code)
}

func TestStudentServiceListClassmatesRequiresEnrollment(t *testing.T) {
	f := newStudentServiceFixture()
	f.classmates.classmates["c1"] = []models.StudentInfo{
		{ID: "s1", Name: "Kid One"},
		{ID: "s2", Name: "Kid Two"},
	}

	_, err := f.svc.ListClassmates(context.Background(), "c1", "s1")
	assertAppError(t, err, appErrors.ErrNotFound.Code)

	f.access.addEnrollment("s1", "c1")
	mates, err := f.svc.ListClassmates(context.Background(), "c1", "s1")
	require.NoError(t, err)
	require.Len(t, mates, 1)
	assert.Equal(t, "s2", mates[0].ID)
}

func TestGenerateTempPasswordShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		password, err := generateTempPassword()
		require.NoError(t, err)
		assert.Regexp(t, tempPasswordShape, password)
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1)
}
