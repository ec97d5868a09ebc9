package middleware

import (
	"context"
	"net/http"
	"strings"

	"talentflow/internal/service"
)

type contextKey string

const (
	AuthorIDKey     contextKey = "authorId"
	CandidateIDKey  contextKey = "candidateId"
	AssessmentIDKey contextKey = "assessmentId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAuthor validates an author JWT from the Authorization header
func (m *AuthMiddleware) RequireAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		claims, err := m.authSvc.ValidateAuthorToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AuthorIDKey, claims.AuthorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCandidate validates a candidate JWT from the Authorization header or token query param
func (m *AuthMiddleware) RequireCandidate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateCandidateToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, CandidateIDKey, claims.CandidateID)
		ctx = context.WithValue(ctx, AssessmentIDKey, claims.AssessmentID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAuthorID extracts author ID from context
func GetAuthorID(ctx context.Context) string {
	if v, ok := ctx.Value(AuthorIDKey).(string); ok {
		return v
	}
	return ""
}

// GetCandidateID extracts candidate ID from context
func GetCandidateID(ctx context.Context) string {
	if v, ok := ctx.Value(CandidateIDKey).(string); ok {
		return v
	}
	return ""
}

// GetAssessmentID extracts the assessment a candidate token is scoped to
func GetAssessmentID(ctx context.Context) string {
	if v, ok := ctx.Value(AssessmentIDKey).(string); ok {
		return v
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
