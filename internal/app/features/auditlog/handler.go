// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trackhub/internal/app/store/audit"
	"github.com/dalemusser/trackhub/internal/app/system/paging"
	"github.com/dalemusser/trackhub/internal/app/system/respond"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
)

// Handler serves the admin-only audit event viewer.
type Handler struct {
	Log    *zap.Logger
	Events *audit.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Events: audit.New(db)}
}

type listResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int64         `json:"total_pages"`
}

// parseFilter builds a QueryFilter from the request query. Bad values in
// optional params are rejected rather than silently ignored.
func parseFilter(r *http.Request) (audit.QueryFilter, string) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
	}

	if s := q.Get("user_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return filter, "invalid user_id"
		}
		filter.UserID = &id
	}
	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, "start must be RFC 3339"
		}
		filter.StartTime = &t
	}
	if s := q.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, "end must be RFC 3339"
		}
		filter.EndTime = &t
	}
	return filter, ""
}

// HandleList handles GET /audit. Supports category, event_type, user_id,
// start, end, and the usual page/limit parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, problem := parseFilter(r)
	if problem != "" {
		respond.BadRequest(w, problem)
		return
	}

	page := paging.Parse(r)
	filter.Limit = int64(page.Limit)
	filter.Offset = page.Skip()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		respond.Internal(w, h.Log, "auditlog: query", err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		respond.Internal(w, h.Log, "auditlog: count", err)
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Events:     events,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: paging.TotalPages(total, page.Limit),
	})
}

// HandleFailedLogins handles GET /audit/failed-logins. The window
// defaults to 24h and is settable with ?since=6h.
func (h *Handler) HandleFailedLogins(w http.ResponseWriter, r *http.Request) {
	window := 24 * time.Hour
	if s := r.URL.Query().Get("since"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			respond.BadRequest(w, "since must be a positive duration like 6h or 30m")
			return
		}
		window = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.GetFailedLogins(ctx, time.Now().Add(-window), 100)
	if err != nil {
		respond.Internal(w, h.Log, "auditlog: failed logins", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"events": events})
}
