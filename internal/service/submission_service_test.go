package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type mockSubmissionRepo struct {
	submissions map[string]*models.Submission // id
	owners      map[string]string             // submissionID -> teacherID
	byTeacher   map[string][]models.SubmissionDetail
	byActivity  map[string][]models.SubmissionDetail
	byStudent   map[string][]models.StudentSubmission
	submitRows  map[string]bool // studentID|activityID has a row
	resets      []string
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{
		submissions: make(map[string]*models.Submission),
		owners:      make(map[string]string),
		byTeacher:   make(map[string][]models.SubmissionDetail),
		byActivity:  make(map[string][]models.SubmissionDetail),
		byStudent:   make(map[string][]models.StudentSubmission),
		submitRows:  make(map[string]bool),
	}
}

func (m *mockSubmissionRepo) FindWithOwner(ctx context.Context, id string) (*models.Submission, string, error) {
	if s, ok := m.submissions[id]; ok {
		copy := *s
		return &copy, m.owners[id], nil
	}
	return nil, "", sql.ErrNoRows
}

func (m *mockSubmissionRepo) FindDetailByIDForTeacher(ctx context.Context, id, teacherID string) (*models.SubmissionDetail, error) {
	if s, ok := m.submissions[id]; ok && m.owners[id] == teacherID {
		return &models.SubmissionDetail{Submission: *s}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubmissionRepo) UpdateGrade(ctx context.Context, id string, grade float64) (*models.Submission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	s.Grade = &grade
	copy := *s
	return &copy, nil
}

func (m *mockSubmissionRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.SubmissionDetail, error) {
	return m.byTeacher[teacherID], nil
}

func (m *mockSubmissionRepo) ListByActivity(ctx context.Context, activityID string) ([]models.SubmissionDetail, error) {
	return m.byActivity[activityID], nil
}

func (m *mockSubmissionRepo) ListByClassroomAndStudent(ctx context.Context, classroomID, studentID, teacherID string) ([]models.Submission, error) {
	return nil, nil
}

func (m *mockSubmissionRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubmission, error) {
	return m.byStudent[studentID], nil
}

func (m *mockSubmissionRepo) ListByStudentAndClassroom(ctx context.Context, studentID, classroomID string) ([]models.StudentSubmission, error) {
	return m.byStudent[studentID], nil
}

func (m *mockSubmissionRepo) Submit(ctx context.Context, studentID, activityID string, content, fileURL *string) (int64, error) {
	if !m.submitRows[studentID+"|"+activityID] {
		return 0, nil
	}
	return 1, nil
}

func (m *mockSubmissionRepo) ResetOwn(ctx context.Context, studentID, activityID string) (int64, error) {
	if !m.submitRows[studentID+"|"+activityID] {
		return 0, nil
	}
	m.resets = append(m.resets, studentID+"|"+activityID)
	return 1, nil
}

type submissionServiceFixture struct {
	repo   *mockSubmissionRepo
	access *accessFixture
	svc    *SubmissionService
}

func newSubmissionServiceFixture() *submissionServiceFixture {
	repo := newMockSubmissionRepo()
	accessFixture, access := newAccessFixture()
	return &submissionServiceFixture{
		repo:   repo,
		access: accessFixture,
		svc:    NewSubmissionService(repo, access, validator.New(), zap.NewNop()),
	}
}

func TestSubmissionServiceGrade(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submissions["sub1"] = &models.Submission{ID: "sub1", Status: models.SubmissionStatusCompleted}
	f.repo.owners["sub1"] = "t1"

	grade := 88.0
	graded, err := f.svc.Grade(context.Background(), "sub1", "t1", models.GradeSubmissionRequest{Grade: &grade})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 88.0, *graded.Grade)
}

func TestSubmissionServiceGradeMissingAndForeignLookAlike(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submissions["sub1"] = &models.Submission{ID: "sub1"}
	f.repo.owners["sub1"] = "t1"

	grade := 88.0
	_, missingErr := f.svc.Grade(context.Background(), "ghost", "t1", models.GradeSubmissionRequest{Grade: &grade})
	_, foreignErr := f.svc.Grade(context.Background(), "sub1", "t2", models.GradeSubmissionRequest{Grade: &grade})

	missing := assertAppError(t, missingErr, appErrors.ErrForbidden.Code)
	foreign := assertAppError(t, foreignErr, appErrors.ErrForbidden.Code)
	assert.Equal(t, "cannot grade this submission", missing.Message)
	assert.Equal(t, missing.Message, foreign.Message)
}

func TestSubmissionServiceGradeOutOfRange(t *testing.T) {
	f := newSubmissionServiceFixture()

	grade := 120.0
	_, err := f.svc.Grade(context.Background(), "sub1", "t1", models.GradeSubmissionRequest{Grade: &grade})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestSubmissionServiceListByTeacherSplitsByStatus(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.byTeacher["t1"] = []models.SubmissionDetail{
		{Submission: models.Submission{ID: "sub1", Status: models.SubmissionStatusCompleted}},
		{Submission: models.Submission{ID: "sub2", Status: models.SubmissionStatusPending}},
		{Submission: models.Submission{ID: "sub3", Status: models.SubmissionStatusCompleted}},
	}

	buckets, err := f.svc.ListByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, buckets.Completed, 2)
	assert.Len(t, buckets.Pending, 1)
}

func TestSubmissionServiceListByTeacherEmpty(t *testing.T) {
	f := newSubmissionServiceFixture()

	buckets, err := f.svc.ListByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.NotNil(t, buckets.Completed)
	assert.NotNil(t, buckets.Pending)
	assert.Empty(t, buckets.Completed)
}

func TestSubmissionServiceListByActivitySplitsByGrade(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.access.addActivity("a1", "c1", "t1")
	grade := 90.0
	f.repo.byActivity["a1"] = []models.SubmissionDetail{
		{Submission: models.Submission{ID: "sub1", Status: models.SubmissionStatusCompleted, Grade: &grade}},
		{Submission: models.Submission{ID: "sub2", Status: models.SubmissionStatusCompleted}},
	}

	buckets, err := f.svc.ListByActivity(context.Background(), "a1", "t1")
	require.NoError(t, err)
	require.Len(t, buckets.Graded, 1)
	assert.Equal(t, "sub1", buckets.Graded[0].ID)
	require.Len(t, buckets.Pending, 1)
	assert.Equal(t, "sub2", buckets.Pending[0].ID)
}

func TestSubmissionServiceListByActivityForeign(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.access.addActivity("a1", "c1", "t1")

	_, err := f.svc.ListByActivity(context.Background(), "a1", "t2")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSubmissionServiceSubmit(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submitRows["s1|a1"] = true

	content := "my answer"
	err := f.svc.Submit(context.Background(), "s1", "a1", models.SubmitActivityRequest{Content: &content})
	require.NoError(t, err)
}

func TestSubmissionServiceSubmitRequiresContentOrFile(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submitRows["s1|a1"] = true

	err := f.svc.Submit(context.Background(), "s1", "a1", models.SubmitActivityRequest{})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestSubmissionServiceSubmitWithoutRow(t *testing.T) {
	f := newSubmissionServiceFixture()

	content := "my answer"
	err := f.svc.Submit(context.Background(), "s1", "a1", models.SubmitActivityRequest{Content: &content})
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSubmissionServiceClearOwnResets(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submitRows["s1|a1"] = true

	err := f.svc.ClearOwn(context.Background(), "s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1|a1"}, f.repo.resets)
}

func TestSubmissionServiceClearOwnWithoutRow(t *testing.T) {
	f := newSubmissionServiceFixture()

	err := f.svc.ClearOwn(context.Background(), "s1", "a1")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSubmissionServiceListMineByClassroomRequiresEnrollment(t *testing.T) {
	f := newSubmissionServiceFixture()
	now := time.Now()
	f.repo.byStudent["s1"] = []models.StudentSubmission{
		{Submission: models.Submission{ID: "sub1", SubmittedAt: &now}},
	}

	_, err := f.svc.ListMineByClassroom(context.Background(), "s1", "c1")
	assertAppError(t, err, appErrors.ErrNotFound.Code)

	f.access.addEnrollment("s1", "c1")
	submissions, err := f.svc.ListMineByClassroom(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.Len(t, submissions, 1)
}

func TestSubmissionServiceGetForeignSubmission(t *testing.T) {
	f := newSubmissionServiceFixture()
	f.repo.submissions["sub1"] = &models.Submission{ID: "sub1"}
	f.repo.owners["sub1"] = "t1"

	_, err := f.svc.Get(context.Background(), "sub1", "t2")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}
