package httpapi

import (
	"net/http"

	"github.com/bazarly/backend/internal/adapter/httpapi/middleware"
	"github.com/bazarly/backend/internal/discovery"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/bazarly/backend/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bazarly/httpapi")

type DiscoveryHandler struct {
	engine  *discovery.Engine
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewDiscoveryHandler(engine *discovery.Engine, m *metrics.Manager, log *logger.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{engine: engine, metrics: m, logger: log}
}

// HandleDiscover serves GET /api/listings/discover?keyword=&mode=.
// Identity is taken from the bearer token when one is present; anonymous
// requests get the non-personalized result.
func (h *DiscoveryHandler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	keyword := r.URL.Query().Get("keyword")
	mode := discovery.ParseMode(r.URL.Query().Get("mode"))

	modeLabel := string(mode)
	if modeLabel == "" {
		modeLabel = "default"
	}

	ctx, span := tracer.Start(r.Context(), "DiscoveryHandler.HandleDiscover")
	span.SetAttributes(
		attribute.String("discover.mode", modeLabel),
		attribute.Bool("discover.authenticated", userID != ""),
	)
	defer span.End()

	listings, err := h.engine.Discover(ctx, userID, keyword, mode)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("HandleDiscover: engine failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load listings"})
		return
	}

	h.metrics.DiscoverRequestsTotal.WithLabelValues(modeLabel).Inc()
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}
