package router

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"taskmanager/internal/application/auth"
	"taskmanager/internal/delivery/http/handler"
	"taskmanager/internal/delivery/http/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth     *handler.AuthHandler
	Task     *handler.TaskHandler
	Category *handler.CategoryHandler
	Tag      *handler.TagHandler
}

// Options configures cross-cutting behavior of the router
type Options struct {
	AllowedOrigins []string
	Logger         *log.Logger
}

// Setup configures all routes for the application
func Setup(handlers Handlers, authService auth.Service, opts Options) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.SendError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	api := r.PathPrefix("/api").Subrouter()

	// ==================
	// Auth routes (public)
	// ==================
	api.HandleFunc("/auth/register", handlers.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handlers.Auth.Login).Methods(http.MethodPost)

	// ==================
	// Protected routes
	// ==================
	private := api.NewRoute().Subrouter()
	private.Use(middleware.Auth(authService))

	private.HandleFunc("/auth/me", handlers.Auth.Me).Methods(http.MethodGet)

	// Static task paths are registered before /tasks/{id}
	private.HandleFunc("/tasks", handlers.Task.List).Methods(http.MethodGet)
	private.HandleFunc("/tasks", handlers.Task.Create).Methods(http.MethodPost)
	private.HandleFunc("/tasks/search", handlers.Task.Search).Methods(http.MethodGet)
	private.HandleFunc("/tasks/incomplete", handlers.Task.Incomplete).Methods(http.MethodGet)
	private.HandleFunc("/tasks/{id:[0-9]+}", handlers.Task.Get).Methods(http.MethodGet)
	private.HandleFunc("/tasks/{id:[0-9]+}", handlers.Task.Update).Methods(http.MethodPut)
	private.HandleFunc("/tasks/{id:[0-9]+}", handlers.Task.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/tasks/{id:[0-9]+}/toggle", handlers.Task.Toggle).Methods(http.MethodPut)

	private.HandleFunc("/categories", handlers.Category.List).Methods(http.MethodGet)
	private.HandleFunc("/categories", handlers.Category.Create).Methods(http.MethodPost)
	private.HandleFunc("/categories/{id:[0-9]+}", handlers.Category.Get).Methods(http.MethodGet)
	private.HandleFunc("/categories/{id:[0-9]+}", handlers.Category.Update).Methods(http.MethodPut)
	private.HandleFunc("/categories/{id:[0-9]+}", handlers.Category.Delete).Methods(http.MethodDelete)

	private.HandleFunc("/tags", handlers.Tag.List).Methods(http.MethodGet)
	private.HandleFunc("/tags", handlers.Tag.Create).Methods(http.MethodPost)
	private.HandleFunc("/tags/{id:[0-9]+}", handlers.Tag.Get).Methods(http.MethodGet)
	private.HandleFunc("/tags/{id:[0-9]+}", handlers.Tag.Update).Methods(http.MethodPut)
	private.HandleFunc("/tags/{id:[0-9]+}", handlers.Tag.Delete).Methods(http.MethodDelete)

	var h http.Handler = r
	h = middleware.CORS(opts.AllowedOrigins, h)
	h = middleware.Recover(opts.Logger)(h)
	h = middleware.Logging(opts.Logger)(h)
	return h
}
