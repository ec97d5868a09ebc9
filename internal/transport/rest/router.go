package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "talentflow/internal/docs"

	"talentflow/internal/config"
	"talentflow/internal/logger"
	"talentflow/internal/metrics"
	"talentflow/internal/service"
	"talentflow/internal/transport/rest/handler"
	"talentflow/internal/transport/rest/middleware"
	"talentflow/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config            *config.Config
	Logger            *logger.Logger
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	ResponseService   *service.ResponseService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.Logger)
	responseHandler := handler.NewResponseHandler(c.AuthService, c.AssessmentService, c.ResponseService, c.Logger)
	respondHandler := handler.NewRespondHandler(c.ResponseService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(middleware.CORS(c.Config.CORS))
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestLogger(c.Logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/assessments/{assessmentId}/author", wsHandler.AuthorWS).Methods("GET")
	v1.HandleFunc("/ws/assessments/{assessmentId}/candidate", wsHandler.CandidateWS).Methods("GET")

	// Author routes
	authorRoutes := v1.NewRoute().Subrouter()
	authorRoutes.Use(authMW.RequireAuthor)

	authorRoutes.HandleFunc("/assessments/{jobId}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}", assessmentHandler.Update).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/check", assessmentHandler.Check).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections", assessmentHandler.AddSection).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/reorder", assessmentHandler.ReorderSections).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}", assessmentHandler.UpdateSection).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}", assessmentHandler.DeleteSection).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}/questions", assessmentHandler.AddQuestion).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}/questions/reorder", assessmentHandler.ReorderQuestions).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}/questions/{questionId}", assessmentHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/sections/{sectionId}/questions/{questionId}", assessmentHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{jobId}/questions/{questionId}/dependencies", assessmentHandler.Dependencies).Methods("GET", "OPTIONS")

	authorRoutes.HandleFunc("/assessments/{assessmentId}/invites", responseHandler.Invite).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{assessmentId}/progress", responseHandler.Progress).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/assessments/{assessmentId}/responses", responseHandler.ListByAssessment).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/candidates/{candidateId}/responses", responseHandler.ListByCandidate).Methods("GET", "OPTIONS")

	// Candidate routes
	candidateRoutes := v1.NewRoute().Subrouter()
	candidateRoutes.Use(authMW.RequireCandidate)

	candidateRoutes.HandleFunc("/respond/state", respondHandler.State).Methods("GET", "OPTIONS")
	candidateRoutes.HandleFunc("/respond/answers/{questionId}", respondHandler.SaveAnswer).Methods("PUT", "OPTIONS")
	candidateRoutes.HandleFunc("/respond/sections/{sectionId}/validate", respondHandler.ValidateSection).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/respond/submit", respondHandler.Submit).Methods("POST", "OPTIONS")

	return r
}
