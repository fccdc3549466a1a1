package handlers

import (
	"net/http"

	"office_climate/internal/models"

	"github.com/gin-gonic/gin"
)

// WeatherSettingsRequest moves the weather location. Label defaults to "Custom location".
type WeatherSettingsRequest struct {
	Lat   *float64 `json:"lat" example:"52.2297"`
	Lon   *float64 `json:"lon" example:"21.0122"`
	Label string   `json:"label" example:"Office"`
}

// @Summary      Weather location
// @Tags         weather
// @Produce      json
// @Success      200  {object}  models.WeatherSettings
// @Router       /api/weather/settings [get]
func (h *Handler) getWeatherSettings(c *gin.Context) {
	s, err := h.services.Weather.WeatherSettings(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "weather_settings_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update weather location
// @Description  Clears the cached forecast.
// @Tags         weather
// @Accept       json
// @Produce      json
// @Param        body  body      WeatherSettingsRequest  true  "Location"
// @Success      200   {object}  models.WeatherSettings
// @Failure      400   {object}  map[string]string
// @Router       /api/weather/settings [put]
func (h *Handler) putWeatherSettings(c *gin.Context) {
	var req WeatherSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lon == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be finite numbers"})
		return
	}
	s, err := h.services.Weather.UpdateWeatherSettings(c.Request.Context(), models.WeatherSettings{
		Lat:   *req.Lat,
		Lon:   *req.Lon,
		Label: req.Label,
	})
	if err != nil {
		h.writeError(c, err, "weather_settings_update_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Weather forecast
// @Description  Served from cache while fresh; a stale cache is returned when the provider is unreachable.
// @Tags         weather
// @Produce      json
// @Success      200  {object}  service.Forecast
// @Failure      502  {object}  map[string]string
// @Router       /api/weather/forecast [get]
func (h *Handler) getForecast(c *gin.Context) {
	fc, err := h.services.Weather.Forecast(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "weather_forecast_failed")
		return
	}
	c.JSON(http.StatusOK, fc)
}

// @Summary      Refresh weather forecast
// @Tags         weather
// @Produce      json
// @Success      200  {object}  service.Forecast
// @Failure      502  {object}  map[string]string
// @Router       /api/weather/refresh [post]
func (h *Handler) refreshForecast(c *gin.Context) {
	fc, err := h.services.Weather.RefreshForecast(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "weather_refresh_failed")
		return
	}
	c.JSON(http.StatusOK, fc)
}

// @Summary      Outdoor temperature history
// @Tags         weather
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 500)"
// @Success      200    {object}  map[string][]models.WeatherObservation
// @Router       /api/weather/history [get]
func (h *Handler) getWeatherHistory(c *gin.Context) {
	rows, err := h.services.Weather.WeatherHistory(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.writeError(c, err, "weather_history_failed")
		return
	}
	if rows == nil {
		rows = []models.WeatherObservation{}
	}
	c.JSON(http.StatusOK, gin.H{"history": rows})
}
