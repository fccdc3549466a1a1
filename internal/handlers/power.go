package handlers

import (
	"net/http"

	"office_climate/internal/models"

	"github.com/gin-gonic/gin"
)

// RecommendationResponse is what the socket scripts poll for.
// State is 1 (on), 0 (off) or null when no temperature has been logged yet.
type RecommendationResponse struct {
	State              *models.PowerState  `json:"state" swaggertype:"integer" example:"1"`
	CurrentTemperature *float64            `json:"currentTemperature" example:"20.4"`
	TargetTemperature  float64             `json:"targetTemperature" example:"21"`
	Source             models.TargetSource `json:"source" example:"schema"`
	Mode               models.ScheduleMode `json:"mode" swaggertype:"string" example:"in-office"`
}

// @Summary      Power socket recommendation
// @Description  1 when the latest reading is below the effective target, 0 at or above it, null without readings.
// @Tags         power
// @Produce      json
// @Success      200  {object}  RecommendationResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/power-socket/recommendation [get]
func (h *Handler) getRecommendation(c *gin.Context) {
	rec, err := h.services.Power.Recommend(c.Request.Context(), h.now())
	if err != nil {
		h.writeError(c, err, "recommendation_failed")
		return
	}
	c.JSON(http.StatusOK, recommendationResponse(rec))
}

func recommendationResponse(rec models.PowerRecommendation) RecommendationResponse {
	resp := RecommendationResponse{
		State:             rec.State,
		TargetTemperature: rec.Target.Temperature,
		Source:            rec.Target.Source,
		Mode:              rec.Target.Mode,
	}
	if rec.Reading != nil {
		cur := rec.Reading.Temperature
		resp.CurrentTemperature = &cur
	}
	return resp
}
