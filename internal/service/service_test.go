package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dan9191/message-service/internal/auth"
	"github.com/Dan9191/message-service/internal/models"
	"github.com/Dan9191/message-service/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	to, token string
	err       error
}

func (m *recordingMailer) SendWelcome(to, token string) error {
	m.to, m.token = to, token
	return m.err
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, mailer Mailer) (*Service, *auth.TokenCodec) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := repository.NewMemoryRepository()
	codec := auth.NewTokenCodec("secret")
	return NewService(repo, repo, codec, mailer, log), codec
}

func mustUser(t *testing.T, s *Service, email string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), strPtr(email))
	require.NoError(t, err)
	return u
}

func TestCreateUser_IssuesToken(t *testing.T) {
	mailer := &recordingMailer{}
	s, codec := newTestService(t, mailer)

	u := mustUser(t, s, "a@b.com")
	assert.NotZero(t, u.ID)
	require.NotEmpty(t, u.Token)

	claims, err := codec.Decode(u.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims["email"])

	assert.Equal(t, "a@b.com", mailer.to)
	assert.Equal(t, u.Token, mailer.token)
}

func TestCreateUser_MailFailureDoesNotFailSignup(t *testing.T) {
	s, _ := newTestService(t, &recordingMailer{err: errors.New("smtp down")})

	u, err := s.CreateUser(context.Background(), strPtr("a@b.com"))
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}

func TestCreateUser_Validation(t *testing.T) {
	s, _ := newTestService(t, nil)

	tests := []struct {
		name   string
		email  *string
		reason string
	}{
		{"missing", nil, "email cannot be empty"},
		{"blank", strPtr(""), "email cannot be empty"},
		{"incorrect", strPtr("test@test"), "email is incorrect"},
		{"too long", strPtr(strings.Repeat("a", 117) + "@example.com"), "Ensure this field has no more than 128 characters."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateUser(context.Background(), tc.email)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.reason}, verr.Fields["email"])
		})
	}

	_, total, err := s.ListUsers(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "no user stored on validation failure")

	u, err := s.CreateUser(context.Background(), strPtr(strings.Repeat("a", 116)+"@example.com"))
	require.NoError(t, err)
	assert.Len(t, u.Email, 128)
}

func TestGetUser_NotFound(t *testing.T) {
	s, _ := newTestService(t, nil)

	_, err := s.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessages_OwnershipIsInvisibility(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)
	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")

	msg, err := s.CreateMessage(ctx, alice, MessageInput{Title: strPtr("Hello"), Body: strPtr("world")})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, msg.UserID)

	_, err = s.GetMessage(ctx, bob, msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateMessage(ctx, bob, msg.ID, MessageInput{Title: strPtr("mine now")}, false)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteMessage(ctx, bob, msg.ID), ErrNotFound)

	list, total, err := s.ListMessages(ctx, bob, "", 5, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	got, err := s.GetMessage(ctx, alice, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

func TestCreateMessage_TitleRules(t *testing.T) {
	s, _ := newTestService(t, nil)
	alice := mustUser(t, s, "alice@example.com")

	for name, in := range map[string]MessageInput{
		"missing":  {Body: strPtr("b")},
		"blank":    {Title: strPtr("   ")},
		"too long": {Title: strPtr(strings.Repeat("x", maxTitleLen+1))},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateMessage(context.Background(), alice, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "title")
		})
	}

	msg, err := s.CreateMessage(context.Background(), alice, MessageInput{Title: strPtr("  trimmed  ")})
	require.NoError(t, err)
	assert.Equal(t, "trimmed", msg.Title)
	assert.Equal(t, "", msg.Body)
}

func TestUpdateMessage_FullAndPartial(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)
	alice := mustUser(t, s, "alice@example.com")

	msg, err := s.CreateMessage(ctx, alice, MessageInput{Title: strPtr("t"), Body: strPtr("b")})
	require.NoError(t, err)

	patched, err := s.UpdateMessage(ctx, alice, msg.ID, MessageInput{Body: strPtr("new body")}, true)
	require.NoError(t, err)
	assert.Equal(t, "t", patched.Title)
	assert.Equal(t, "new body", patched.Body)

	_, err = s.UpdateMessage(ctx, alice, msg.ID, MessageInput{Body: strPtr("x")}, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr, "full update requires a title")

	put, err := s.UpdateMessage(ctx, alice, msg.ID, MessageInput{Title: strPtr("T2")}, false)
	require.NoError(t, err)
	assert.Equal(t, "T2", put.Title)
	assert.Equal(t, "", put.Body)
	assert.Equal(t, alice.ID, put.UserID)
}

func TestListMessages_SearchAndPaging(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)
	alice := mustUser(t, s, "alice@example.com")

	for _, title := range []string{"buy milk", "call mom", "buy bread"} {
		_, err := s.CreateMessage(ctx, alice, MessageInput{Title: strPtr(title)})
		require.NoError(t, err)
	}

	list, total, err := s.ListMessages(ctx, alice, "buy", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Title)
}

func TestStampOwner_OverridesClientValue(t *testing.T) {
	draft := &models.Message{Title: "t", UserID: 99}
	StampOwner(&models.User{ID: 1}, draft)
	assert.Equal(t, int64(1), draft.UserID)
	assert.Equal(t, int64(1), ScopeForRead(&models.User{ID: 1}).UserID)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{"title": {"cannot be blank"}, "email": {"email is incorrect"}}}
	assert.Equal(t, "validation failed: email: email is incorrect; title: cannot be blank", err.Error())
}
