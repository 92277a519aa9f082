package handlers

import (
	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

type CenterHandler struct {
	Directory *services.CenterDirectory
}

// List returns the catalog in catalog order.
func (h *CenterHandler) List(w http.ResponseWriter, r *http.Request) {
	centers := h.Directory.All()

	res := dto.ListCentersResponse{Centers: make([]dto.CenterResponse, 0, len(centers))}
	for _, c := range centers {
		res.Centers = append(res.Centers, centerResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Nearest resolves ?lat=&lng= to the closest center.
func (h *CenterHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lat")), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lng")), 64)
	if errLat != nil || errLng != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lng query parameters must be numbers")
		return
	}

	where := domain.Coordinates{Lat: lat, Lng: lng}
	if err := where.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.Directory.Nearest(where)
	if err != nil {
		writeError(w, r, statusFor(err), publicMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NearestCenterResponse{
		Center:     centerResponse(match.Center),
		DistanceKm: match.DistanceKm,
	})
}
