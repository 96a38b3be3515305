package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/repository"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments   map[string]*models.Enrollment // studentID|classroomID
	roster        map[string][]models.EnrolledStudent
	createErr     error
	findMissFirst int
	deleted       []string
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollments: make(map[string]*models.Enrollment),
		roster:      make(map[string][]models.EnrolledStudent),
	}
}

func (m *mockEnrollmentRepo) FindByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (*models.Enrollment, error) {
	if m.findMissFirst > 0 {
		m.findMissFirst--
		return nil, sql.ErrNoRows
	}
	if e, ok := m.enrollments[studentID+"|"+classroomID]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	m.enrollments[enrollment.StudentID+"|"+enrollment.ClassroomID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	for key, e := range m.enrollments {
		if e.ID == id {
			delete(m.enrollments, key)
		}
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEnrollmentRepo) UpdateScore(ctx context.Context, studentID, classroomID string, score float64) (int64, error) {
	e, ok := m.enrollments[studentID+"|"+classroomID]
	if !ok {
		return 0, nil
	}
	e.Score = &score
	return 1, nil
}

func (m *mockEnrollmentRepo) ListStudentsByClassroom(ctx context.Context, classroomID string) ([]models.EnrolledStudent, error) {
	return m.roster[classroomID], nil
}

type mockActivityIDLister struct {
	ids map[string][]string // classroomID -> activity ids
}

func (m *mockActivityIDLister) ListIDsByClassroomTx(ctx context.Context, tx *sqlx.Tx, classroomID string) ([]string, error) {
	return m.ids[classroomID], nil
}

type mockSubmissionCascader struct {
	seeded  []repository.SubmissionSeed
	cleared []string // studentID|classroomID
}

func (m *mockSubmissionCascader) BulkCreatePendingTx(ctx context.Context, tx *sqlx.Tx, seeds []repository.SubmissionSeed) error {
	m.seeded = append(m.seeded, seeds...)
	return nil
}

func (m *mockSubmissionCascader) DeleteByClassroomStudentTx(ctx context.Context, tx *sqlx.Tx, studentID, classroomID string) error {
	m.cleared = append(m.cleared, studentID+"|"+classroomID)
	return nil
}

type enrollmentServiceFixture struct {
	dbMock      sqlmock.Sqlmock
	repo        *mockEnrollmentRepo
	activities  *mockActivityIDLister
	submissions *mockSubmissionCascader
	cache       *mockClassroomCache
	access      *accessFixture
	svc         *EnrollmentService
	close       func()
}

func newEnrollmentServiceFixture(t *testing.T) *enrollmentServiceFixture {
	t.Helper()
	rawDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(rawDB, "sqlmock")

	repo := newMockEnrollmentRepo()
	activities := &mockActivityIDLister{ids: make(map[string][]string)}
	submissions := &mockSubmissionCascader{}
	cache := newMockClassroomCache()
	accessFixture, access := newAccessFixture()

	return &enrollmentServiceFixture{
		dbMock:      dbMock,
		repo:        repo,
		activities:  activities,
		submissions: submissions,
		cache:       cache,
		access:      accessFixture,
		svc:         NewEnrollmentService(db, repo, activities, submissions, cache, access, NewMetricsService(), validator.New(), zap.NewNop()),
		close:       func() { rawDB.Close() },
	}
}

const (
	testStudentID = "7f0e2f7a-63b5-4f3e-9d35-04fb6c79a001"
	testOtherID   = "7f0e2f7a-63b5-4f3e-9d35-04fb6c79a002"
)

func TestEnrollmentServiceEnrollSeedsPendingSubmissions(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")
	f.activities.ids["c1"] = []string{"a1", "a2", "a3"}

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	enrollment, err := f.svc.Enroll(context.Background(), "c1", "t1", models.EnrollStudentRequest{StudentID: testStudentID})
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
	require.Len(t, f.submissions.seeded, 3)
	for _, seed := range f.submissions.seeded {
		assert.Equal(t, testStudentID, seed.StudentID)
	}
	assert.Contains(t, f.cache.invalidated, "t1")
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")
	f.repo.enrollments[testStudentID+"|c1"] = &models.Enrollment{ID: "e1", StudentID: testStudentID, ClassroomID: "c1"}

	_, err := f.svc.Enroll(context.Background(), "c1", "t1", models.EnrollStudentRequest{StudentID: testStudentID})
	assertAppError(t, err, appErrors.ErrConflict.Code)
	assert.Empty(t, f.submissions.seeded)
}

func TestEnrollmentServiceEnrollRaceLoserReturnsExisting(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")

	// a concurrent enroll wins between the pre-check and the insert
	f.repo.createErr = &pq.Error{Code: "23505"}
	f.repo.enrollments[testStudentID+"|c1"] = &models.Enrollment{ID: "e-winner", StudentID: testStudentID, ClassroomID: "c1"}
	f.repo.findMissFirst = 1

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	enrollment, err := f.svc.Enroll(context.Background(), "c1", "t1", models.EnrollStudentRequest{StudentID: testStudentID})
	require.NoError(t, err)
	assert.Equal(t, "e-winner", enrollment.ID)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollForeignStudent(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t2")

	_, err := f.svc.Enroll(context.Background(), "c1", "t1", models.EnrollStudentRequest{StudentID: testStudentID})
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestEnrollmentServiceEnrollRejectsBadStudentID(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()

	_, err := f.svc.Enroll(context.Background(), "c1", "t1", models.EnrollStudentRequest{StudentID: "not-a-uuid"})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestEnrollmentServiceUnenrollDeletesSubmissions(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addEnrollment(testStudentID, "c1")

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	err := f.svc.Unenroll(context.Background(), "c1", testStudentID, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{testStudentID + "|c1"}, f.submissions.cleared)
	assert.Equal(t, []string{"enr-" + testStudentID}, f.repo.deleted)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestEnrollmentServiceUnenrollNotEnrolled(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")

	err := f.svc.Unenroll(context.Background(), "c1", testStudentID, "t1")
	appErr := assertAppError(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "student not found in this classroom", appErr.Message)
}

func TestEnrollmentServiceUpdateScore(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")
	f.repo.enrollments[testStudentID+"|c1"] = &models.Enrollment{ID: "e1", StudentID: testStudentID, ClassroomID: "c1"}

	score := 91.5
	err := f.svc.UpdateScore(context.Background(), "c1", testStudentID, "t1", models.UpdateScoreRequest{Score: &score})
	require.NoError(t, err)
	require.NotNil(t, f.repo.enrollments[testStudentID+"|c1"].Score)
	assert.Equal(t, 91.5, *f.repo.enrollments[testStudentID+"|c1"].Score)
}

func TestEnrollmentServiceUpdateScoreNotEnrolled(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")

	score := 50.0
	err := f.svc.UpdateScore(context.Background(), "c1", testStudentID, "t1", models.UpdateScoreRequest{Score: &score})
	appErr := assertAppError(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "student not found in this classroom", appErr.Message)
}

func TestEnrollmentServiceUpdateScoreOutOfRange(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()

	score := 101.0
	err := f.svc.UpdateScore(context.Background(), "c1", testStudentID, "t1", models.UpdateScoreRequest{Score: &score})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestEnrollmentServiceStudentInClassroom(t *testing.T) {
	f := newEnrollmentServiceFixture(t)
	defer f.close()
	f.access.addClassroom("c1", "t1")
	f.access.addStudent(testStudentID, "t1")
	f.access.addEnrollment(testStudentID, "c1")
	score := 75.0
	f.access.enrollments.enrollments[testStudentID+"|c1"].Score = &score

	student, err := f.svc.StudentInClassroom(context.Background(), "c1", testStudentID, "t1")
	require.NoError(t, err)
	assert.Equal(t, testStudentID, student.ID)
	require.NotNil(t, student.Score)
	assert.Equal(t, 75.0, *student.Score)
}
