package handlers

import (
	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/services"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type HelpHandler struct {
	Deps services.HelpDeps
}

// Request locates the caller, resolves the nearest center and dispatches
// one help message.
func (h *HelpHandler) Request(w http.ResponseWriter, r *http.Request) {
	if h.Deps.Notifier == nil {
		writeError(w, r, http.StatusServiceUnavailable, "help dispatch is not configured")
		return
	}

	var req dto.HelpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		writeError(w, r, http.StatusBadRequest, "latitude and longitude must be given together")
		return
	}

	in := services.HelpInput{
		Address: strings.TrimSpace(req.Address),
		Message: req.Message,
	}
	if req.Latitude != nil {
		in.Coordinates = &domain.Coordinates{Lat: *req.Latitude, Lng: *req.Longitude}
	}
	if in.Coordinates == nil && in.Address == "" {
		writeError(w, r, http.StatusBadRequest, "latitude/longitude or address is required")
		return
	}

	kind, err := domain.ParseEmergencyType(req.EmergencyType)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	in.EmergencyType = kind

	out, err := services.RequestHelp(r.Context(), in, h.Deps)
	if err != nil {
		zap.L().Warn("help request failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, statusFor(err), publicMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HelpResponse{
		RequestID:     out.Request.ID,
		Latitude:      out.Request.RequesterLocation.Lat,
		Longitude:     out.Request.RequesterLocation.Lng,
		NearestCenter: centerResponse(out.Match.Center),
		DistanceKm:    out.Match.DistanceKm,
		MessageSID:    out.Receipt.MessageSID,
		CreatedAt:     out.Request.CreatedAt,
	})
}
