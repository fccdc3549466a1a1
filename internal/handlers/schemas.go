package handlers

import (
	"errors"
	"io"
	"net/http"

	"office_climate/internal/models"
	"office_climate/internal/schedule"

	"github.com/gin-gonic/gin"
)

// IntervalPayload is the wire form of an interval. Times are "HH:MM" in UTC;
// end may be "24:00" to reach midnight.
type IntervalPayload struct {
	DayOfWeek *int   `json:"dayOfWeek" example:"1"`
	Start     string `json:"start" example:"09:00"`
	End       string `json:"end" example:"17:00"`
}

// SchemaRequest creates or replaces a schema together with all of its intervals.
type SchemaRequest struct {
	Name                   string            `json:"name" example:"Office hours"`
	Description            *string           `json:"description"`
	InOfficeTemperature    *float64          `json:"inOfficeTemperature" example:"21"`
	OutOfOfficeTemperature *float64          `json:"outOfOfficeTemperature" example:"17"`
	Intervals              []IntervalPayload `json:"intervals"`
}

// IntervalResponse carries both minute offsets and their "HH:MM" rendering.
type IntervalResponse struct {
	ID               int64  `json:"id,omitempty"`
	DayOfWeek        int    `json:"dayOfWeek"`
	StartTimeMinutes int    `json:"startTimeMinutes"`
	EndTimeMinutes   int    `json:"endTimeMinutes"`
	Start            string `json:"start"`
	End              string `json:"end"`
}

// SchemaResponse is a schema with its intervals.
type SchemaResponse struct {
	models.Schema
	Intervals []IntervalResponse `json:"intervals"`
}

// ActiveSchemaRequest activates a schema; a null schemaId deactivates all.
type ActiveSchemaRequest struct {
	SchemaID *int64 `json:"schemaId" example:"1"`
}

// toInput validates the wire payload and converts it to the store model.
// Every interval is checked before anything is returned so the batch is all-or-nothing.
func (r SchemaRequest) toInput() (models.SchemaInput, error) {
	if r.Name == "" {
		return models.SchemaInput{}, errBadRequest("name is required")
	}
	if r.InOfficeTemperature == nil {
		return models.SchemaInput{}, errBadRequest("inOfficeTemperature must be a finite number")
	}
	if r.OutOfOfficeTemperature == nil {
		return models.SchemaInput{}, errBadRequest("outOfOfficeTemperature must be a finite number")
	}

	intervals := make([]models.Interval, 0, len(r.Intervals))
	for i, p := range r.Intervals {
		if p.DayOfWeek == nil {
			return models.SchemaInput{}, errBadRequest("interval %d: %v", i, schedule.ErrInvalidDay)
		}
		start, err := schedule.ParseClock(p.Start)
		if err != nil {
			return models.SchemaInput{}, errBadRequest("interval %d: start: %v", i, err)
		}
		end, err := schedule.ParseEndClock(p.End)
		if err != nil {
			return models.SchemaInput{}, errBadRequest("interval %d: end: %v", i, err)
		}
		intervals = append(intervals, models.Interval{DayOfWeek: *p.DayOfWeek, StartTimeMinutes: start, EndTimeMinutes: end})
	}

	return models.SchemaInput{
		Name:                   r.Name,
		Description:            r.Description,
		InOfficeTemperature:    *r.InOfficeTemperature,
		OutOfOfficeTemperature: *r.OutOfOfficeTemperature,
		Intervals:              intervals,
	}, nil
}

func schemaResponse(s *models.SchemaWithIntervals) *SchemaResponse {
	if s == nil {
		return nil
	}
	out := &SchemaResponse{Schema: s.Schema, Intervals: make([]IntervalResponse, 0, len(s.Intervals))}
	for _, iv := range s.Intervals {
		out.Intervals = append(out.Intervals, IntervalResponse{
			ID:               iv.ID,
			DayOfWeek:        iv.DayOfWeek,
			StartTimeMinutes: iv.StartTimeMinutes,
			EndTimeMinutes:   iv.EndTimeMinutes,
			Start:            schedule.FormatClock(iv.StartTimeMinutes),
			End:              schedule.FormatClock(iv.EndTimeMinutes),
		})
	}
	return out
}

func (h *Handler) bindSchema(c *gin.Context) (models.SchemaInput, bool) {
	var req SchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return models.SchemaInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(c, err, "schema_bind_failed")
		return models.SchemaInput{}, false
	}
	return in, true
}

// @Summary      List schemas
// @Description  Schemas without their intervals.
// @Tags         schemas
// @Produce      json
// @Success      200  {object}  map[string][]models.Schema
// @Failure      500  {object}  map[string]string
// @Router       /api/schemas [get]
func (h *Handler) listSchemas(c *gin.Context) {
	schemas, err := h.services.Schemas.ListSchemas(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "schemas_list_failed")
		return
	}
	if schemas == nil {
		schemas = []models.Schema{}
	}
	c.JSON(http.StatusOK, gin.H{"schemas": schemas})
}

// @Summary      Get schema
// @Tags         schemas
// @Produce      json
// @Param        id   path      int  true  "Schema id"
// @Success      200  {object}  map[string]SchemaResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/schemas/{id} [get]
func (h *Handler) getSchema(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.services.Schemas.GetSchema(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "schema_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schema": schemaResponse(s)})
}

// @Summary      Create schema
// @Tags         schemas
// @Accept       json
// @Produce      json
// @Param        body  body      SchemaRequest  true  "Schema with intervals"
// @Success      201   {object}  map[string]SchemaResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/schemas [post]
func (h *Handler) createSchema(c *gin.Context) {
	in, ok := h.bindSchema(c)
	if !ok {
		return
	}
	s, err := h.services.Schemas.CreateSchema(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "schema_create_failed", "name", in.Name)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schema": schemaResponse(s)})
}

// @Summary      Replace schema
// @Description  Replaces all fields and the whole interval set atomically.
// @Tags         schemas
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Schema id"
// @Param        body  body      SchemaRequest  true  "Schema with intervals"
// @Success      200   {object}  map[string]SchemaResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/schemas/{id} [put]
func (h *Handler) updateSchema(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, ok := h.bindSchema(c)
	if !ok {
		return
	}
	s, err := h.services.Schemas.UpdateSchema(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err, "schema_update_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schema": schemaResponse(s)})
}

// @Summary      Delete schema
// @Tags         schemas
// @Param        id   path  int  true  "Schema id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/schemas/{id} [delete]
func (h *Handler) deleteSchema(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.services.Schemas.DeleteSchema(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "schema_delete_failed", "id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Active schema
// @Tags         schemas
// @Produce      json
// @Success      200  {object}  map[string]SchemaResponse  "schema is null when none is active"
// @Router       /api/schemas-active [get]
func (h *Handler) getActiveSchema(c *gin.Context) {
	s, err := h.services.Schemas.ActiveSchema(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "schema_active_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"schema": schemaResponse(s)})
}

// @Summary      Set active schema
// @Description  Atomically deactivates the previous schema. schemaId null, {} or an empty body deactivates all.
// @Tags         schemas
// @Accept       json
// @Produce      json
// @Param        body  body      ActiveSchemaRequest  false  "Schema id or null"
// @Success      200   {object}  ActiveSchemaRequest
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/schemas-active [post]
func (h *Handler) setActiveSchema(c *gin.Context) {
	var req ActiveSchemaRequest
	// An empty body means the same as {}: deactivate all.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schemaId must be a positive integer or null"})
		return
	}
	if req.SchemaID != nil && *req.SchemaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schemaId must be a positive integer or null"})
		return
	}
	if err := h.services.Schemas.SetActiveSchema(c.Request.Context(), req.SchemaID); err != nil {
		h.writeError(c, err, "schema_activate_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"schemaId": req.SchemaID})
}
