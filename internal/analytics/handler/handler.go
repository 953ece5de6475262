// Package handler exposes the analytics API over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ihsan/internal/analytics"
	"ihsan/internal/platform/metrics"
	"ihsan/internal/platform/middleware"
	dErrors "ihsan/pkg/domain-errors"
	"ihsan/pkg/platform/httputil"
)

const defaultTopN = 10

// Service defines the interface for analytics queries.
type Service interface {
	Summary(ctx context.Context) analytics.Summary
	KPIs(ctx context.Context, f analytics.Filter) analytics.KPIs
	Growth(ctx context.Context, f analytics.Filter, g analytics.Granularity) (analytics.GrowthResult, error)
	Donors(ctx context.Context, f analytics.Filter, n int) analytics.DonorsResult
	Events(ctx context.Context, f analytics.Filter) []analytics.EventStat
	Categories(ctx context.Context, f analytics.Filter, n int) []analytics.CategoryStat
	TimeStats(ctx context.Context, f analytics.Filter) analytics.TimeStatistics
	Compare(ctx context.Context, a, b analytics.Filter, labelA, labelB string) analytics.Comparison
	Degraded() bool
}

// envelope wraps every analytics response so clients can tell when results
// came from an unenriched fallback dataset.
type envelope struct {
	Data     any  `json:"data"`
	Degraded bool `json:"degraded"`
}

// Handler handles the analytics endpoints.
type Handler struct {
	logger    *slog.Logger
	analytics Service
	metrics   *metrics.Metrics
}

// New creates a new analytics Handler.
func New(analytics Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		analytics: analytics,
		metrics:   metrics,
	}
}

// Register registers the analytics routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Recovery(h.logger))
	apiRouter.Use(middleware.RequestID)
	apiRouter.Use(middleware.Logger(h.logger))
	apiRouter.Use(middleware.Timeout(30 * time.Second))
	apiRouter.Use(middleware.Latency(h.metrics))
	apiRouter.Get("/summary", h.handleSummary)
	apiRouter.Get("/kpis", h.handleKPIs)
	apiRouter.Get("/growth", h.handleGrowth)
	apiRouter.Get("/donors", h.handleDonors)
	apiRouter.Get("/events", h.handleEvents)
	apiRouter.Get("/categories", h.handleCategories)
	apiRouter.Get("/time", h.handleTimeStats)
	apiRouter.Post("/compare", h.handleCompare)

	r.Mount("/api/v1", apiRouter)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	h.write(w, h.analytics.Summary(r.Context()))
}

func (h *Handler) handleKPIs(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, h.analytics.KPIs(r.Context(), f))
}

func (h *Handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	g := analytics.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = analytics.GranularityMonth
	}
	result, err := h.analytics.Growth(r.Context(), f, g)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, result)
}

func (h *Handler) handleDonors(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	n, err := topNFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, h.analytics.Donors(r.Context(), f, n))
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, h.analytics.Events(r.Context(), f))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	n, err := topNFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, h.analytics.Categories(r.Context(), f, n))
}

func (h *Handler) handleTimeStats(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	h.write(w, h.analytics.TimeStats(r.Context(), f))
}

// comparePeriod is one side of a comparison request.
type comparePeriod struct {
	Label      string   `json:"label"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Categories []string `json:"categories"`
}

type compareRequest struct {
	PeriodA comparePeriod `json:"period_a"`
	PeriodB comparePeriod `json:"period_b"`
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[compareRequest](w, r)
	if !ok {
		return
	}

	filterA, err := filterFromPeriod(req.PeriodA)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}
	filterB, err := filterFromPeriod(req.PeriodB)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	labelA, labelB := req.PeriodA.Label, req.PeriodB.Label
	if labelA == "" {
		labelA = "period_a"
	}
	if labelB == "" {
		labelB = "period_b"
	}
	h.write(w, h.analytics.Compare(r.Context(), filterA, filterB, labelA, labelB))
}

func (h *Handler) write(w http.ResponseWriter, data any) {
	httputil.WriteJSON(w, http.StatusOK, envelope{Data: data, Degraded: h.analytics.Degraded()})
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "invalid analytics request",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
	if dErrors.Is(err, dErrors.CodeBadRequest) {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request"))
}

func filterFromQuery(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	f := analytics.Filter{}

	from, err := parseDay(q.Get("from"))
	if err != nil {
		return analytics.Filter{}, err
	}
	to, err := parseDay(q.Get("to"))
	if err != nil {
		return analytics.Filter{}, err
	}
	f.From, f.To = from, to

	if raw := q.Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Categories = append(f.Categories, c)
			}
		}
	}
	return f, nil
}

func filterFromPeriod(p comparePeriod) (analytics.Filter, error) {
	from, err := parseDay(p.From)
	if err != nil {
		return analytics.Filter{}, err
	}
	to, err := parseDay(p.To)
	if err != nil {
		return analytics.Filter{}, err
	}
	return analytics.Filter{From: from, To: to, Categories: p.Categories}, nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "dates must be YYYY-MM-DD")
	}
	return &t, nil
}

func topNFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	return n, nil
}
