package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/util"
)

const testSessionSecret = "test-session-secret"

func newTestAuthService(sessions *fakeSessionRepo) *AuthService {
	admins := newTestAdminService(newFakeAdminRepo())
	return NewAuthService(admins, sessions, testSessionSecret)
}

func TestAuthService_Login_IssuesSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newTestAuthService(sessions)
	ctx := context.Background()

	token, identity, err := svc.Login(ctx, testDefaultEmail, testDefaultPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, testDefaultEmail, identity.Email)

	// The store holds the HMAC of the token, never the token itself.
	_, ok := sessions.sessions[token]
	assert.False(t, ok)
	stored, err := sessions.FindByTokenHash(ctx, util.HmacSHA256(testSessionSecret, token))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, testDefaultEmail, stored.AdminEmail)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), stored.ExpiresAt, time.Minute)

	session, err := svc.Session(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, stored.ID, session.ID)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newTestAuthService(sessions)

	token, _, err := svc.Login(context.Background(), testDefaultEmail, "wrong")
	assert.Empty(t, token)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, apperrors.GetCode(err))
	assert.Empty(t, sessions.sessions, "failed login must not create a session")
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	svc := newTestAuthService(newFakeSessionRepo())
	ctx := context.Background()

	token, _, err := svc.Login(ctx, testDefaultEmail, testDefaultPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	session, err := svc.Session(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Logging out twice is a no-op.
	assert.NoError(t, svc.Logout(ctx, token))
}

func TestAuthService_Session_UnknownToken(t *testing.T) {
	svc := newTestAuthService(newFakeSessionRepo())

	session, err := svc.Session(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, session)
}
