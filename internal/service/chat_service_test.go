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

	"github.com/notoria-edu/classroom-api/internal/models"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
)

type mockConversationRepo struct {
	conversations map[string]*models.Conversation // id
	byPair        map[string]*models.Conversation // teacherID|studentID
	messages      map[string][]models.Message
	createErr     error
	pairMissFirst int
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{
		conversations: make(map[string]*models.Conversation),
		byPair:        make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
	}
}

func (m *mockConversationRepo) FindByPair(ctx context.Context, teacherID, studentID string) (*models.Conversation, error) {
	if m.pairMissFirst > 0 {
		m.pairMissFirst--
		return nil, sql.ErrNoRows
	}
	if c, ok := m.byPair[teacherID+"|"+studentID]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockConversationRepo) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	if c, ok := m.conversations[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockConversationRepo) Create(ctx context.Context, conversation *models.Conversation) error {
	if m.createErr != nil {
		return m.createErr
	}
	if conversation.ID == "" {
		conversation.ID = uuid.NewString()
	}
	m.conversations[conversation.ID] = conversation
	m.byPair[conversation.TeacherID+"|"+conversation.StudentID] = conversation
	return nil
}

func (m *mockConversationRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.ConversationDetail, error) {
	var out []models.ConversationDetail
	for _, c := range m.conversations {
		if c.TeacherID == teacherID {
			out = append(out, models.ConversationDetail{Conversation: *c})
		}
	}
	return out, nil
}

func (m *mockConversationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.ConversationDetail, error) {
	var out []models.ConversationDetail
	for _, c := range m.conversations {
		if c.StudentID == studentID {
			out = append(out, models.ConversationDetail{Conversation: *c})
		}
	}
	return out, nil
}

func (m *mockConversationRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	m.messages[message.ConversationID] = append(m.messages[message.ConversationID], *message)
	return nil
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	return m.messages[conversationID], nil
}

type mockChatStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockChatStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type chatServiceFixture struct {
	repo     *mockConversationRepo
	students *mockChatStudentRepo
	access   *accessFixture
	svc      *ChatService
}

func newChatServiceFixture() *chatServiceFixture {
	repo := newMockConversationRepo()
	students := &mockChatStudentRepo{students: make(map[string]*models.Student)}
	accessFixture, access := newAccessFixture()
	return &chatServiceFixture{
		repo:     repo,
		students: students,
		access:   accessFixture,
		svc:      NewChatService(repo, students, access, validator.New(), zap.NewNop()),
	}
}

func teacherClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent}
}

func TestChatServiceTeacherSendCreatesConversation(t *testing.T) {
	f := newChatServiceFixture()
	f.access.addStudent(testStudentID, "t1")

	message, err := f.svc.SendMessage(context.Background(), teacherClaims("t1"), models.SendMessageRequest{
		StudentID: testStudentID,
		Content:   "Welcome to class",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, message.SenderRole)

	conversation := f.repo.byPair["t1|"+testStudentID]
	require.NotNil(t, conversation)
	assert.Len(t, f.repo.messages[conversation.ID], 1)
}

func TestChatServiceTeacherSendRequiresStudentID(t *testing.T) {
	f := newChatServiceFixture()

	_, err := f.svc.SendMessage(context.Background(), teacherClaims("t1"), models.SendMessageRequest{Content: "Hello"})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestChatServiceTeacherCannotMessageForeignStudent(t *testing.T) {
	f := newChatServiceFixture()
	f.access.addStudent(testStudentID, "t2")

	_, err := f.svc.SendMessage(context.Background(), teacherClaims("t1"), models.SendMessageRequest{
		StudentID: testStudentID,
		Content:   "Hello",
	})
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestChatServiceStudentSendReachesOwnTeacher(t *testing.T) {
	f := newChatServiceFixture()
	f.students.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1"}

	message, err := f.svc.SendMessage(context.Background(), studentClaims("s1"), models.SendMessageRequest{Content: "Question about homework"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, message.SenderRole)
	assert.NotNil(t, f.repo.byPair["t1|s1"])
}

func TestChatServiceSecondMessageReusesConversation(t *testing.T) {
	f := newChatServiceFixture()
	f.students.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1"}

	_, err := f.svc.SendMessage(context.Background(), studentClaims("s1"), models.SendMessageRequest{Content: "First"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(context.Background(), studentClaims("s1"), models.SendMessageRequest{Content: "Second"})
	require.NoError(t, err)

	assert.Len(t, f.repo.conversations, 1)
	conversation := f.repo.byPair["t1|s1"]
	assert.Len(t, f.repo.messages[conversation.ID], 2)
}

func TestChatServiceCreateRaceLoserReusesWinner(t *testing.T) {
	f := newChatServiceFixture()
	f.students.students["s1"] = &models.Student{ID: "s1", TeacherID: "t1"}

	// a concurrent first message wins between the lookup and the insert
	winner := &models.Conversation{ID: "conv-winner", TeacherID: "t1", StudentID: "s1"}
	f.repo.conversations[winner.ID] = winner
	f.repo.byPair["t1|s1"] = winner
	f.repo.createErr = &pq.Error{Code: "23505"}
	f.repo.pairMissFirst = 1

	message, err := f.svc.SendMessage(context.Background(), studentClaims("s1"), models.SendMessageRequest{Content: "Racing"})
	require.NoError(t, err)
	assert.Equal(t, "conv-winner", message.ConversationID)
}

func TestChatServiceListMessagesPartyCheck(t *testing.T) {
	f := newChatServiceFixture()
	conversation := &models.Conversation{ID: "conv1", TeacherID: "t1", StudentID: "s1"}
	f.repo.conversations[conversation.ID] = conversation
	f.repo.messages["conv1"] = []models.Message{{ID: "m1", ConversationID: "conv1", Content: "Hello"}}

	messages, err := f.svc.ListMessages(context.Background(), teacherClaims("t1"), "conv1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	messages, err = f.svc.ListMessages(context.Background(), studentClaims("s1"), "conv1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	_, err = f.svc.ListMessages(context.Background(), teacherClaims("t2"), "conv1")
	appErr := assertAppError(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "conversation not found", appErr.Message)
}

func TestChatServiceListConversationsByRole(t *testing.T) {
	f := newChatServiceFixture()
	f.repo.conversations["conv1"] = &models.Conversation{ID: "conv1", TeacherID: "t1", StudentID: "s1"}
	f.repo.conversations["conv2"] = &models.Conversation{ID: "conv2", TeacherID: "t1", StudentID: "s2"}

	conversations, err := f.svc.ListConversations(context.Background(), teacherClaims("t1"))
	require.NoError(t, err)
	assert.Len(t, conversations, 2)

	conversations, err = f.svc.ListConversations(context.Background(), studentClaims("s2"))
	require.NoError(t, err)
	assert.Len(t, conversations, 1)
}
