package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"talentflow/internal/config"
	"talentflow/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingCandidate   = errors.New("candidateId is required")
)

// AuthService handles author and candidate authentication
type AuthService struct {
	authorUsername string
	authorPassword string
	jwtSecret      []byte
	candidateTTL   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		authorUsername: cfg.AuthorUsername,
		authorPassword: cfg.AuthorPassword,
		jwtSecret:      []byte(cfg.JWTSecret),
		candidateTTL:   cfg.CandidateTTL,
	}
}

// Login validates author credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.authorUsername || password != s.authorPassword {
		return nil, ErrInvalidCredentials
	}

	authorID := "author_" + uuid.New().String()[:8]

	claims := &model.AuthorClaims{
		AuthorID: authorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		AuthorID: authorID,
	}, nil
}

// ValidateAuthorToken validates an author JWT and returns claims
func (s *AuthService) ValidateAuthorToken(tokenString string) (*model.AuthorClaims, error) {
	claims := &model.AuthorClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.AuthorID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Invite creates an assessment-scoped token for a candidate
func (s *AuthService) Invite(assessmentID, candidateID string) (*model.InviteResponse, error) {
	if candidateID == "" {
		return nil, ErrMissingCandidate
	}

	now := time.Now()
	claims := &model.CandidateClaims{
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.candidateTTL != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.candidateTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.InviteResponse{
		Token:        tokenString,
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
	}, nil
}

// ValidateCandidateToken validates a candidate JWT and returns claims
func (s *AuthService) ValidateCandidateToken(tokenString string) (*model.CandidateClaims, error) {
	claims := &model.CandidateClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.AssessmentID == "" || claims.CandidateID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
