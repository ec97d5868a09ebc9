package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/config"
)

func testAuth(ttl time.Duration) *AuthService {
	return NewAuthService(config.AuthConfig{
		AuthorUsername: "recruiter",
		AuthorPassword: "hunter2",
		JWTSecret:      "test-secret",
		CandidateTTL:   ttl,
	})
}

func TestLogin(t *testing.T) {
	auth := testAuth(time.Hour)

	_, err := auth.Login("recruiter", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := auth.Login("recruiter", "hunter2")
	require.NoError(t, err)

	claims, err := auth.ValidateAuthorToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AuthorID, claims.AuthorID)
}

func TestInvite_TokenScopedToAssessment(t *testing.T) {
	auth := testAuth(time.Hour)

	invite, err := auth.Invite("a1", "cand-1")
	require.NoError(t, err)

	claims, err := auth.ValidateCandidateToken(invite.Token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.AssessmentID)
	assert.Equal(t, "cand-1", claims.CandidateID)

	_, err = auth.ValidateAuthorToken(invite.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "candidate tokens cannot act as authors")

	_, err = auth.Invite("a1", "")
	assert.ErrorIs(t, err, ErrMissingCandidate)
}

func TestValidateCandidateToken_Rejects(t *testing.T) {
	auth := testAuth(time.Hour)
	other := NewAuthService(config.AuthConfig{JWTSecret: "other-secret", CandidateTTL: time.Hour})

	login, err := auth.Login("recruiter", "hunter2")
	require.NoError(t, err)
	_, err = auth.ValidateCandidateToken(login.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "author tokens cannot answer")

	foreign, err := other.Invite("a1", "cand-1")
	require.NoError(t, err)
	_, err = auth.ValidateCandidateToken(foreign.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ValidateCandidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateCandidateToken_Expired(t *testing.T) {
	auth := testAuth(time.Hour)
	auth.candidateTTL = -time.Minute

	invite, err := auth.Invite("a1", "cand-1")
	require.NoError(t, err)

	_, err = auth.ValidateCandidateToken(invite.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
