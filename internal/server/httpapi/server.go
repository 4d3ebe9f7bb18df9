// Package httpapi exposes GoalKeeper's services as a JSON API over chi.
// Handlers are thin: decode, call the service with the authenticated caller
// id, map sentinel errors to status codes.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/goalkeeper/internal/logging"
	"github.com/dmitrijs2005/goalkeeper/internal/server/config"
	"github.com/dmitrijs2005/goalkeeper/internal/server/services"
)

// Server wires the services into an http.Server with routing, CORS, and
// bearer authentication.
type Server struct {
	addr       string
	corsOrigin string
	jwtSecret  []byte

	authService   *services.AuthService
	userService   *services.UserService
	goalService   *services.GoalService
	friendService *services.FriendService

	logger logging.Logger
	srv    *http.Server
}

func NewServer(cfg *config.Config,
	authService *services.AuthService,
	userService *services.UserService,
	goalService *services.GoalService,
	friendService *services.FriendService,
	logger logging.Logger,
) *Server {
	return &Server{
		addr:          cfg.EndpointAddr,
		corsOrigin:    cfg.CORSOrigin,
		jwtSecret:     []byte(cfg.SecretKey),
		authService:   authService,
		userService:   userService,
		goalService:   goalService,
		friendService: friendService,
		logger:        logger.With("module", "httpapi"),
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	var origins []string
	for _, p := range strings.Split(s.corsOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/users/me", s.handleGetMe)
			r.Put("/users/me", s.handleUpsertMe)
			r.Get("/users/search", s.handleSearchUsers)
			r.Get("/users/{id}", s.handleGetUser)
			r.Post("/users/lookup", s.handleLookupUsers)
			r.Post("/budget/topup", s.handleBudgetTopUp)

			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Get("/goals/{id}", s.handleGetGoal)
			r.Patch("/goals/{id}", s.handleUpdateGoal)
			r.Delete("/goals/{id}", s.handleDeleteGoal)
			r.Post("/goals/{id}/complete", s.handleCompleteGoal)
			r.Post("/goals/{id}/not-achieved", s.handleGoalNotAchieved)
			r.Post("/goals/{id}/verify", s.handleVerifyGoal)
			r.Get("/verifier/goals", s.handleGoalsToVerify)

			r.Get("/friends", s.handleListFriends)
			r.Post("/friends", s.handleAddFriend)
			r.Post("/friends/{id}/accept", s.handleAcceptFriend)
			r.Post("/friends/{id}/reject", s.handleRejectFriend)
			r.Delete("/friends/{id}", s.handleRemoveFriend)
			r.Get("/friends/{id}/goals", s.handleFriendGoals)
			r.Post("/invitations", s.handleInvite)
			r.Get("/invitations", s.handleListInvitations)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting http server...", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info(ctx, "Stopping http server...")
	return s.srv.Shutdown(shutdownCtx)
}
