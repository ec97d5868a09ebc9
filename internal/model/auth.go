package model

import "github.com/golang-jwt/jwt/v5"

// AuthorClaims are JWT claims for assessment authors (recruiters)
type AuthorClaims struct {
	AuthorID string `json:"authorId"`
	jwt.RegisteredClaims
}

// CandidateClaims are JWT claims for a candidate invited to one assessment
type CandidateClaims struct {
	AssessmentID string `json:"assessmentId"`
	CandidateID  string `json:"candidateId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for author login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token    string `json:"token"`
	AuthorID string `json:"authorId"`
}

// InviteRequest asks for a candidate token scoped to one assessment
type InviteRequest struct {
	CandidateID string `json:"candidateId"`
}

// InviteResponse carries the candidate token
type InviteResponse struct {
	Token        string `json:"token"`
	AssessmentID string `json:"assessmentId"`
	CandidateID  string `json:"candidateId"`
}
