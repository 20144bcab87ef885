package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/message-service/internal/auth"
	"github.com/Dan9191/message-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	user *models.User
	err  error
	got  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, header string) (*models.User, error) {
	s.got = header
	return s.user, s.err
}

func serve(t *testing.T, a Authenticator, header string) (*httptest.ResponseRecorder, bool, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := Identity(r.Context())
		require.True(t, ok)
		fmt.Fprint(w, user.ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/messages/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	AuthMiddleware(a, log)(next).ServeHTTP(rec, req)
	return rec, called, hook
}

func TestAuthMiddleware_PassesIdentity(t *testing.T) {
	a := &stubAuthenticator{user: &models.User{ID: 7}}

	rec, called, _ := serve(t, a, "Bearer abc")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Body.String())
	assert.Equal(t, "Bearer abc", a.got)
}

func TestAuthMiddleware_RejectsUniformly(t *testing.T) {
	a := &stubAuthenticator{err: auth.ErrInvalidCredentials}

	rec, called, hook := serve(t, a, "Bearer secret-token-value")
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid jwt."}`, rec.Body.String())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	for _, e := range hook.AllEntries() {
		s, err := e.String()
		require.NoError(t, err)
		assert.NotContains(t, s, "secret-token-value")
	}
}

func TestAuthMiddleware_StorageFailure(t *testing.T) {
	a := &stubAuthenticator{err: errors.New("db down")}

	rec, called, hook := serve(t, a, "Bearer abc")
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestIdentity_Missing(t *testing.T) {
	_, ok := Identity(context.Background())
	assert.False(t, ok)
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/", nil))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, http.StatusTeapot, hook.LastEntry().Data["status"])
	assert.Equal(t, "/users/", hook.LastEntry().Data["path"])
}
