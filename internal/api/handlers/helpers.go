package handlers

import (
	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmptyCenterList):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotifierTransport), errors.Is(err, domain.ErrNotifierRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the client-facing text for a classified failure.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return "invalid coordinates"
	case errors.Is(err, domain.ErrLocationUnavailable):
		return "location unavailable"
	case errors.Is(err, domain.ErrEmptyCenterList):
		return "no emergency centers configured"
	case errors.Is(err, domain.ErrNotifierTransport):
		return "could not reach the sms relay"
	case errors.Is(err, domain.ErrNotifierRejected):
		return "sms relay rejected the message"
	default:
		return "internal server error"
	}
}

func centerResponse(c domain.EmergencyCenter) dto.CenterResponse {
	return dto.CenterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Latitude:  c.Location.Lat,
		Longitude: c.Location.Lng,
	}
}
