// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"time"

	"github.com/dalemusser/mosqueconnect/internal/app/store/audit"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/normalize"
	"github.com/dalemusser/mosqueconnect/internal/app/system/paging"
	"github.com/dalemusser/mosqueconnect/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /api/admin/audit. Events are newest first and may
// be filtered by category, event type, entity, actor and date range
// (start_date and end_date as YYYY-MM-DD, end inclusive).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	f := audit.QueryFilter{
		Category:   normalize.Filter(query.Get(r, "category")),
		EventType:  normalize.Filter(query.Get(r, "event_type")),
		EntityType: normalize.Filter(query.Get(r, "entity_type")),
	}
	if f.Category != "" && !knownCategory(f.Category) {
		h.ErrLog.Field(w, "category", "unknown category")
		return
	}

	var err error
	if f.EntityID, err = httpx.ParseOptionalHex(query.Get(r, "entity_id")); err != nil {
		h.ErrLog.BadRequest(w, "invalid entity id")
		return
	}
	if f.ActorID, err = httpx.ParseOptionalHex(query.Get(r, "actor_id")); err != nil {
		h.ErrLog.BadRequest(w, "invalid actor id")
		return
	}
	if s := query.Get(r, "start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.ErrLog.Field(w, "start_date", "use YYYY-MM-DD")
			return
		}
		f.StartTime = &t
	}
	if s := query.Get(r, "end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.ErrLog.Field(w, "end_date", "use YYYY-MM-DD")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}

	p := paging.Parse(r, paging.Sorts{})
	f.Limit = int64(p.Limit)
	f.Offset = p.Skip()

	events, err := h.Events.Query(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit log query", err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit log count", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, paging.NewPage(events, p, total))
}

// ServeEventTypes handles GET /api/admin/audit/event-types: the filter
// values the list accepts, by category.
func (h *Handler) ServeEventTypes(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, eventTypes)
}
