package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"office_climate/internal/models"

	"github.com/gin-gonic/gin"
)

// TargetResponse is the effective target in force right now.
type TargetResponse struct {
	TargetTemperature float64             `json:"targetTemperature" example:"21"`
	Source            models.TargetSource `json:"source" example:"schema"`
	SchemaID          *int64              `json:"schemaId" example:"1"`
	Mode              models.ScheduleMode `json:"mode" swaggertype:"string" example:"in-office"`
}

// StatusResponse merges the effective target with the latest reading.
type StatusResponse struct {
	TargetTemperature           float64             `json:"targetTemperature" example:"21"`
	TargetSource                models.TargetSource `json:"targetSource" example:"schema"`
	TargetSchemaID              *int64              `json:"targetSchemaId" example:"1"`
	TargetMode                  models.ScheduleMode `json:"targetMode" swaggertype:"string" example:"in-office"`
	CurrentTemperature          *float64            `json:"currentTemperature" example:"20.4"`
	CurrentTemperatureTimestamp *time.Time          `json:"currentTemperatureTimestamp"`
}

// SetTargetRequest sets the global default target.
type SetTargetRequest struct {
	TargetTemperature *float64 `json:"targetTemperature" example:"22"`
}

// CurrentTemperatureRequest logs one measured temperature.
type CurrentTemperatureRequest struct {
	Temperature *float64 `json:"temperature" example:"20.4"`
}

func targetResponse(t models.EffectiveTarget) TargetResponse {
	return TargetResponse{TargetTemperature: t.Temperature, Source: t.Source, SchemaID: t.SchemaID, Mode: t.Mode}
}

func statusResponse(st models.Status) StatusResponse {
	resp := StatusResponse{
		TargetTemperature: st.Target.Temperature,
		TargetSource:      st.Target.Source,
		TargetSchemaID:    st.Target.SchemaID,
		TargetMode:        st.Target.Mode,
	}
	if st.Reading != nil {
		temp, ts := st.Reading.Temperature, st.Reading.Timestamp
		resp.CurrentTemperature = &temp
		resp.CurrentTemperatureTimestamp = &ts
	}
	return resp
}

// @Summary      Effective target
// @Description  Active schema temperature for the current UTC week position, or the default when no schema is active.
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  TargetResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/temperature/target [get]
func (h *Handler) getTarget(c *gin.Context) {
	target, err := h.services.Targets.Effective(c.Request.Context(), h.now())
	if err != nil {
		h.writeError(c, err, "target_resolve_failed")
		return
	}
	c.JSON(http.StatusOK, targetResponse(target))
}

// @Summary      Set default target
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body      SetTargetRequest  true  "Default target"
// @Success      200   {object}  SetTargetRequest
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/temperature/target [post]
func (h *Handler) setTarget(c *gin.Context) {
	var req SetTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetTemperature == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid targetTemperature"})
		return
	}
	if err := h.services.Targets.SetDefault(c.Request.Context(), *req.TargetTemperature); err != nil {
		h.writeError(c, err, "target_set_failed", "value", *req.TargetTemperature)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targetTemperature": *req.TargetTemperature})
}

// @Summary      Target and latest reading
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/temperature/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Readings.Status(c.Request.Context(), h.now())
	if err != nil {
		h.writeError(c, err, "status_failed")
		return
	}
	c.JSON(http.StatusOK, statusResponse(st))
}

// @Summary      Log current temperature
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body      CurrentTemperatureRequest  true  "Measured temperature"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/temperature/current [post]
func (h *Handler) postCurrent(c *gin.Context) {
	var req CurrentTemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Temperature == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temperature"})
		return
	}
	h.logReading(c, *req.Temperature)
}

// @Summary      Log current temperature (query)
// @Description  Variant for sensors that can only issue GET requests.
// @Tags         temperature
// @Produce      json
// @Param        temperature  query     number  true  "Measured temperature"  example(21.3)
// @Success      200          {object}  map[string]bool
// @Failure      400          {object}  map[string]string
// @Router       /api/temperature/current [get]
func (h *Handler) getCurrent(c *gin.Context) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Query("temperature")), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temperature"})
		return
	}
	h.logReading(c, v)
}

func (h *Handler) logReading(c *gin.Context, v float64) {
	if err := h.services.Readings.Log(c.Request.Context(), v); err != nil {
		h.writeError(c, err, "reading_log_failed", "value", v)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Reading history
// @Description  Newest first. limit outside (0,500] falls back to 50.
// @Tags         temperature
// @Produce      json
// @Param        limit  query     int  false  "Max rows"  example(50)
// @Success      200    {object}  map[string][]models.Reading
// @Failure      500    {object}  map[string]string
// @Router       /api/temperature/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	history, err := h.services.Readings.History(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.writeError(c, err, "history_failed")
		return
	}
	if history == nil {
		history = []models.Reading{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// queryLimit returns ?limit as an int, or 0 (meaning "use the default") when absent or malformed.
func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

