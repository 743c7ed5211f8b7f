package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// clientConfigResponse carries the settings the client shell needs at boot.
// An empty maps key degrades the delivery map to address-text-only mode.
type clientConfigResponse struct {
	GoogleMapsAPIKey string `json:"google_maps_api_key"`
}

// ConfigHandler serves the public client configuration.
type ConfigHandler struct {
	googleMapsAPIKey string
}

func NewConfigHandler(googleMapsAPIKey string) *ConfigHandler {
	return &ConfigHandler{googleMapsAPIKey: googleMapsAPIKey}
}

// Get handles GET /api/config.
//
// @Summary      Client configuration
// @Tags         config
// @Produce      json
// @Success      200  {object}  clientConfigResponse
// @Router       /api/config [get]
func (h *ConfigHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, clientConfigResponse{GoogleMapsAPIKey: h.googleMapsAPIKey})
}
