package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"questline/internal/service"
	"questline/internal/transport/rest/handler"
	"questline/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	ContentService  *service.ContentService
	AnswerService   *service.AnswerService
	ProgressService *service.ProgressService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	contentHandler := handler.NewContentHandler(c.ContentService)
	answerHandler := handler.NewAnswerHandler(c.AnswerService)
	progressHandler := handler.NewProgressHandler(c.ProgressService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Content routes
	api.HandleFunc("/cms", contentHandler.GetCMS).Methods("GET", "OPTIONS")
	api.HandleFunc("/cms", contentHandler.ReplaceCMS).Methods("POST", "OPTIONS")
	api.HandleFunc("/questionnaire/{cluster}", contentHandler.Questionnaire).Methods("GET", "OPTIONS")
	api.HandleFunc("/pages/{cluster}", contentHandler.Pages).Methods("GET", "OPTIONS")

	// User-scoped routes
	userRoutes := api.NewRoute().Subrouter()
	userRoutes.Use(middleware.RequireUser)

	userRoutes.HandleFunc("/userAnswers/{userId}/reset/{cluster}", answerHandler.ResetAnswers).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/userAnswers/{userId}/{cluster}", answerHandler.GetAnswers).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/userAnswers/{userId}/{cluster}", answerHandler.ReplaceAnswers).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/userAnswers/{userId}/{cluster}/answer", answerHandler.ApplyAnswer).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/userAnswers/{userId}/{cluster}/back", answerHandler.Back).Methods("POST", "OPTIONS")

	// Literal segments registered before {pageId} so reset/back never
	// match as page ids.
	userRoutes.HandleFunc("/pageAnswers/{userId}/{cluster}/reset", answerHandler.ResetPageAnswers).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/pageAnswers/{userId}/{cluster}/back", answerHandler.PageBack).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/pageAnswers/{userId}/{cluster}", answerHandler.GetPageAnswers).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/pageAnswers/{userId}/{cluster}/{pageId}", answerHandler.GetPageAnswersForPage).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/pageAnswers/{userId}/{cluster}/{pageId}", answerHandler.SubmitPage).Methods("POST", "OPTIONS")

	userRoutes.HandleFunc("/progress/{userId}", progressHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
