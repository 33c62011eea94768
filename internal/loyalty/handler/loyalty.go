package handler

import (
	"encoding/json"
	"net/http"

	"barberbook/internal/loyalty/service"
	httputil "barberbook/pkg/http"
	"barberbook/pkg/logger"
	"barberbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type LoyaltyHandler struct {
	service service.LoyaltyService
	log     *logger.Logger
}

func NewLoyaltyHandler(service service.LoyaltyService, log *logger.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log,
	}
}

func (h *LoyaltyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/me/stats", h.Stats)
	router.POST("/api/v1/points/redeem", h.Redeem)
}

func (h *LoyaltyHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Stats", "error", writeErr)
		}
		return
	}

	stats, err := h.service.Stats(r.Context(), identity)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Stats", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "error", err)
	}
}

type redeemRequest struct {
	PointsToRedeem int    `json:"pointsToRedeem"`
	Description    string `json:"description"`
}

func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Redeem", "error", writeErr)
		}
		return
	}

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Redeem", "error", writeErr)
		}
		return
	}

	result, err := h.service.Redeem(r.Context(), identity, req.PointsToRedeem, req.Description)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Redeem", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Redeem", "error", err)
	}
}
