package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ihsan/internal/pipeline"
	"ihsan/internal/platform/middleware"
	dErrors "ihsan/pkg/domain-errors"
	"ihsan/pkg/platform/httputil"
)

// Reprocessor defines the interface for the reprocess operation.
type Reprocessor interface {
	Reprocess(ctx context.Context) (pipeline.Summary, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Reprocessor
	jwtValidator middleware.JWTValidator
}

// NewHandler creates a new admin Handler.
func NewHandler(service Reprocessor, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		jwtValidator: jwtValidator,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(10 * time.Minute))
	adminRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	adminRouter.Post("/reprocess", h.handleReprocess)

	r.Mount("/admin", adminRouter)
}

func (h *Handler) handleReprocess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	summary, err := h.service.Reprocess(ctx)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnavailable) {
			h.logger.WarnContext(ctx, "reprocess rejected, run in progress",
				"request_id", requestID,
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "reprocess failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "reprocess failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
