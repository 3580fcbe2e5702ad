package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	rh "github.com/coreybb/tasktracker/route-handlers"
	"github.com/coreybb/tasktracker/webutil"
)

const (
	apiBasePath   = "/api"
	authBasePath  = "/auth"
	tasksBasePath = "/tasks"
	healthPath    = "/health"
)

const (
	registerSubPath = "/register"
	loginSubPath    = "/login"
	profileSubPath  = "/profile"
	statsSubPath    = "/stats"
	toggleSubPath   = "/toggle"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

// availableRoutes is reported to clients that hit an unknown path.
var availableRoutes = []string{
	"GET " + apiBasePath + healthPath,
	"POST " + apiBasePath + authBasePath + registerSubPath,
	"POST " + apiBasePath + authBasePath + loginSubPath,
	"GET " + apiBasePath + authBasePath + profileSubPath,
	"GET " + apiBasePath + tasksBasePath,
	"POST " + apiBasePath + tasksBasePath,
	"PUT " + apiBasePath + tasksBasePath + "/:id",
	"DELETE " + apiBasePath + tasksBasePath + "/:id",
	"PATCH " + apiBasePath + tasksBasePath + "/:id" + toggleSubPath,
	"GET " + apiBasePath + tasksBasePath + statsSubPath,
}

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	ClientOrigin   string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func SetupRoutes(
	cfg RouterConfig,
	authenticator Authenticator,
	authHandler *rh.AuthHandler,
	taskHandler *rh.TaskHandler,
	health http.Handler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Log every request
	r.Use(middleware.Recoverer) // Recover from panics
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{webutil.HeaderAuthorization, webutil.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	r.Use(SecurityHeaders)

	// A known path with the wrong method is an unknown route too.
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	r.Route(apiBasePath, func(r chi.Router) {
		r.Method(http.MethodGet, healthPath, health)
		configureAuthRoutes(r, authenticator, authHandler)
		configureTaskRoutes(r, authenticator, taskHandler)
	})

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Auth Routes ---
func configureAuthRoutes(r chi.Router, authenticator Authenticator, handler *rh.AuthHandler) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Post(registerSubPath, webutil.MakeHandler(handler.HandleRegister))
		r.Post(loginSubPath, webutil.MakeHandler(handler.HandleLogin))
		r.With(RequireAuth(authenticator)).Get(profileSubPath, webutil.MakeHandler(handler.HandleProfile))
	})
}

// --- Task Routes ---
// Every task route sits behind the auth gate and is scoped to the caller.
func configureTaskRoutes(r chi.Router, authenticator Authenticator, handler *rh.TaskHandler) {
	specificTaskPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(tasksBasePath, func(r chi.Router) {
		r.Use(RequireAuth(authenticator))

		r.Get("/", webutil.MakeHandler(handler.HandleGetTasks))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateTask))
		r.Get(statsSubPath, webutil.MakeHandler(handler.HandleGetTaskStats))
		r.Route(specificTaskPath, func(r chi.Router) {
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateTask))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteTask))
			r.Patch(toggleSubPath, webutil.MakeHandler(handler.HandleToggleTask)) // PATCH /tasks/{id}/toggle
		})
	})
}

type notFoundResponse struct {
	Error           string   `json:"error"`
	AvailableRoutes []string `json:"availableRoutes"`
}

// handleNotFound lists the known routes for unmatched method and path pairs.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusNotFound, notFoundResponse{
		Error:           "Route not found",
		AvailableRoutes: availableRoutes,
	})
}
