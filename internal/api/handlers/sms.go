package handlers

import (
	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/ports"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Twilio concatenates at most ten segments.
const maxSMSChars = 1600

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// SMSHandler is the relay: it forwards {to, message} to the SMS provider.
type SMSHandler struct {
	Sender ports.SMSSender
}

func (h *SMSHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendSMSRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, dto.SendSMSResponse{Error: err.Error()})
		return
	}

	to := strings.TrimSpace(req.To)
	if !e164.MatchString(to) {
		writeJSON(w, r, http.StatusBadRequest, dto.SendSMSResponse{Error: "to must be an E.164 phone number"})
		return
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeJSON(w, r, http.StatusBadRequest, dto.SendSMSResponse{Error: "message is required"})
		return
	}
	if utf8.RuneCountInString(msg) > maxSMSChars {
		writeJSON(w, r, http.StatusBadRequest, dto.SendSMSResponse{Error: "message is too long"})
		return
	}

	sid, err := h.Sender.Send(r.Context(), to, msg)
	if err != nil {
		zap.L().Error("send sms failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, r, http.StatusInternalServerError, dto.SendSMSResponse{Error: "sms provider rejected the message"})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SendSMSResponse{Success: true, MessageSID: sid})
}
