package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

type EmergencyType string

const (
	EmergencyFire      EmergencyType = "Fire"
	EmergencyPolice    EmergencyType = "Police"
	EmergencyAccident  EmergencyType = "Accident"
	EmergencyBreakDown EmergencyType = "Break Down"
)

var emergencyTypes = []EmergencyType{
	EmergencyFire,
	EmergencyPolice,
	EmergencyAccident,
	EmergencyBreakDown,
}

// ParseEmergencyType matches s case-insensitively against the known types.
// An empty string yields an empty type (unspecified).
func ParseEmergencyType(s string) (EmergencyType, error) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", nil
	}
	for _, t := range emergencyTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", eris.Errorf("unknown emergency type %q", s)
}

// Represents one user's call for help.
// A HelpRequest is built per user action and discarded once it has been sent.
type HelpRequest struct {
	ID                string
	RequesterLocation Coordinates
	NearestCenterName string
	EmergencyType     EmergencyType
	FreeTextMessage   string
	CreatedAt         time.Time
}

// SMSBody renders the request as the text message delivered to responders.
func (r HelpRequest) SMSBody() string {
	var b strings.Builder
	fmt.Fprintf(
		&b,
		"Emergency! Help needed at Latitude: %v, Longitude: %v. Nearest Center: %s",
		r.RequesterLocation.Lat, r.RequesterLocation.Lng, r.NearestCenterName,
	)
	if r.EmergencyType != "" {
		fmt.Fprintf(&b, " Type: %s.", r.EmergencyType)
	}
	if msg := strings.TrimSpace(r.FreeTextMessage); msg != "" {
		fmt.Fprintf(&b, " Details: %s", msg)
	}
	return b.String()
}

// Acknowledgement returned by a notifier once the relay accepted a message.
type Receipt struct {
	MessageSID string
}
