// Package httpapi assembles the gateway's route table: the public
// verification workflow under /api/v1, the admin gate and dashboard under
// /admin, and the operational endpoints at the root.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "kycvault/internal/admin/handler"
	adminmw "kycvault/internal/admin/middleware"
	dashboardhandler "kycvault/internal/dashboard/handler"
	workflowhandler "kycvault/internal/workflow/handler"
	"kycvault/pkg/platform/httputil"
	"kycvault/pkg/platform/middleware/metadata"
	"kycvault/pkg/platform/middleware/request"
	"kycvault/pkg/platform/middleware/requesttime"
	"kycvault/pkg/platform/middleware/session"
)

// Deps carries the wired handlers and the admin gate.
type Deps struct {
	Logger    *slog.Logger
	Workflow  *workflowhandler.Handler
	Admin     *adminhandler.Handler
	Dashboard *dashboardhandler.Handler
	Gate      adminmw.Authenticator

	// Health reports backend connectivity; nil means no backend to check.
	Health func(ctx context.Context) error
}

// NewRouter builds the route table.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth(d.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(g chi.Router) {
			g.Use(session.Identity)
			d.Workflow.Register(g)
		})
	})

	r.Route("/admin", func(ar chi.Router) {
		d.Admin.Register(ar)
		ar.Group(func(g chi.Router) {
			g.Use(adminmw.RequireAdmin(d.Gate, d.Logger))
			d.Dashboard.Register(g)
		})
	})

	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
