package workflow

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkflowRepo abstracts workflow persistence for testability.
type WorkflowRepo interface {
	Get(ctx context.Context, id string) (*Workflow, error)
	Create(ctx context.Context, name string, def Definition) (string, error)
	SaveDefinition(ctx context.Context, id string, def Definition) (bool, error)
}

// Service exposes the workflow editor's persistence and graph-query
// surface over HTTP.
type Service struct {
	repo WorkflowRepo
}

// NewService creates a Service backed by a PostgreSQL repository.
func NewService(pool *pgxpool.Pool) (*Service, error) {
	return &Service{repo: NewRepository(pool)}, nil
}

// jsonMiddleware sets the Content-Type header to application/json.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes registers workflow HTTP handlers on the given router.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/workflows").Subrouter()
	router.StrictSlash(false)
	router.Use(jsonMiddleware)

	router.HandleFunc("", s.HandleCreateWorkflow).Methods("POST")
	router.HandleFunc("/{id}", s.HandleGetWorkflow).Methods("GET")
	router.HandleFunc("/{id}", s.HandleSaveDefinition).Methods("PATCH")
	router.HandleFunc("/{id}/nodes/{nodeId}/references", s.HandleReferenceOptions).Methods("GET")
	router.HandleFunc("/{id}/compatibility", s.HandleCompatibility).Methods("GET")
}
