package dto

import "time"

// Body of POST /help. Either both coordinates or an address must be given.
type HelpRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       string   `json:"address"`
	EmergencyType string   `json:"emergency_type"`
	Message       string   `json:"message"`
}

type HelpResponse struct {
	RequestID     string         `json:"request_id"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	NearestCenter CenterResponse `json:"nearest_center"`
	DistanceKm    float64        `json:"distance_km"`
	MessageSID    string         `json:"message_sid,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
