package handlers

import (
	"fmt"
	"net/http"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/service"

	"github.com/gin-gonic/gin"
)

// queryLayout is an accepted time format; dateOnly values stretch to the end of the day for 'to'.
type queryLayout struct {
	layout   string
	dateOnly bool
}

var queryLayouts = []queryLayout{
	{layout: time.RFC3339},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02", dateOnly: true},
}

// @Summary      List logs
// @Description  Audit events oldest first. from/to accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range; date-only means end of day"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(TARGET_CHANGED,SCHEMA_CREATED,SCHEMA_UPDATED,SCHEMA_DELETED,SCHEMA_ACTIVATED,SCHEMA_DEACTIVATED,POWER_ON,POWER_OFF,POWER_UNKNOWN)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	f := service.LogFilter{Type: c.Query("type")}
	var err error
	if f.From, err = queryTime(c, "from", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if f.To, err = queryTime(c, "to", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err, "logs_list_failed", "from", f.From, "to", f.To, "type", f.Type)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// queryTime reads an optional time parameter. With endOfDay set, a date-only
// value is moved to the last nanosecond of that day.
func queryTime(c *gin.Context, name string, endOfDay bool) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, dateOnly, err := parseQueryTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid '%s' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD", name)
	}
	if endOfDay && dateOnly {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseQueryTime(s string) (t time.Time, dateOnly bool, err error) {
	for _, l := range queryLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.UTC(), l.dateOnly, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid time format %q", s)
}
