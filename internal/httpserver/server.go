// Package httpserver is the moderation console's web surface: the pending
// list, the four moderation actions and the broadcast form.
package httpserver

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	listpending "market-admin/internal/actions/listing/list-pending"
	approvenew "market-admin/internal/actions/market/approve-new"
	rejectnew "market-admin/internal/actions/market/reject-new"
	sendbroadcast "market-admin/internal/actions/notification/send-broadcast"
	confirmdelete "market-admin/internal/actions/submission/confirm-delete"
	rejectdelete "market-admin/internal/actions/submission/reject-delete"
	"market-admin/internal/common/config"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Actions bundles the handlers the console routes to.
type Actions struct {
	List          *listpending.Handler
	ApproveNew    *approvenew.Handler
	RejectNew     *rejectnew.Handler
	ConfirmDelete *confirmdelete.Handler
	RejectDelete  *rejectdelete.Handler
	Broadcast     *sendbroadcast.Handler
}

type Server struct {
	cfg     *config.Config
	actions Actions
	health  *HealthHandler
	flash   *FlashStore
	errors  *errors.ErrorHandler
	obs     *observability.Observability
	logger  logger.Logger
	timeout time.Duration
}

func NewServer(cfg *config.Config, actions Actions, store Pinger, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		cfg:     cfg,
		actions: actions,
		health:  NewHealthHandler(store),
		flash:   NewFlashStore(cfg.Server.FlashSecret),
		errors:  errors.NewErrorHandler(log),
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "httpserver"}),
		timeout: config.GetDuration(cfg.Server.RequestTimeout),
	}
}

// Router wires middleware and routes. Disabled actions are not mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/", s.Index)
	if s.enabled(sendbroadcast.ActionName) {
		r.Post("/send_broadcast", s.SendBroadcast)
	}

	s.mountAction(r, "/approve_new/{id}", approvenew.ActionName, func(ctx context.Context, id string) error {
		_, err := s.actions.ApproveNew.Execute(ctx, &approvenew.Input{ID: id})
		return err
	})
	s.mountAction(r, "/reject_new/{id}", rejectnew.ActionName, func(ctx context.Context, id string) error {
		_, err := s.actions.RejectNew.Execute(ctx, &rejectnew.Input{ID: id})
		return err
	})
	s.mountAction(r, "/confirm_delete/{id}", confirmdelete.ActionName, func(ctx context.Context, id string) error {
		_, err := s.actions.ConfirmDelete.Execute(ctx, &confirmdelete.Input{ID: id})
		return err
	})
	s.mountAction(r, "/reject_delete/{id}", rejectdelete.ActionName, func(ctx context.Context, id string) error {
		_, err := s.actions.RejectDelete.Execute(ctx, &rejectdelete.Input{ID: id})
		return err
	})

	r.Get("/healthz", s.health.Liveness)
	r.Get("/readyz", s.health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) enabled(action string) bool {
	return config.IsActionEnabled(s.cfg, action)
}

func (s *Server) mountAction(r chi.Router, pattern, action string, run func(ctx context.Context, id string) error) {
	if !s.enabled(action) {
		s.logger.Info("action disabled, route not mounted", map[string]interface{}{"action": action})
		return
	}
	h := s.actionHandler(action, run)
	r.Get(pattern, h)
	r.Post(pattern, h)
}

func logFromRequest(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), logger.NewNoOpLogger())
}
