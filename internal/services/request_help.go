package services

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// What the requester supplied for one help action.
// Either Coordinates or Address must be set; Coordinates win when both are.
type HelpInput struct {
	Coordinates   *domain.Coordinates
	Address       string
	EmergencyType domain.EmergencyType
	Message       string
}

type HelpDeps struct {
	Locator   ports.Locator
	Directory *CenterDirectory
	Notifier  ports.Notifier
	Now       func() time.Time
}

type HelpOutcome struct {
	Request domain.HelpRequest
	Match   Match
	Receipt domain.Receipt
}

// RequestHelp runs the whole flow: locate the requester, resolve the nearest
// center, then hand a single HelpRequest to the notifier and wait for its ack.
func RequestHelp(ctx context.Context, in HelpInput, deps HelpDeps) (_ *HelpOutcome, err error) {
	defer obs.Time(ctx, "help.Request")(&err)

	if deps.Directory == nil {
		return nil, eris.Wrap(domain.ErrEmptyCenterList, "request help: no center directory")
	}
	if deps.Notifier == nil {
		return nil, eris.New("request help: notifier is nil")
	}

	var where domain.Coordinates
	switch {
	case in.Coordinates != nil:
		if err := in.Coordinates.Validate(); err != nil {
			return nil, eris.Wrap(err, "request help")
		}
		where = *in.Coordinates
	case strings.TrimSpace(in.Address) != "":
		where, err = AcquireLocation(ctx, deps.Locator, strings.TrimSpace(in.Address))
		if err != nil {
			return nil, eris.Wrap(err, "request help")
		}
	default:
		return nil, eris.Wrap(domain.ErrLocationUnavailable, "request help: no coordinates or address given")
	}

	match, err := deps.Directory.Nearest(where)
	if err != nil {
		return nil, eris.Wrap(err, "request help: resolve nearest center")
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	req := domain.HelpRequest{
		ID:                uuid.NewString(),
		RequesterLocation: where,
		NearestCenterName: match.Center.Name,
		EmergencyType:     in.EmergencyType,
		FreeTextMessage:   strings.TrimSpace(in.Message),
		CreatedAt:         now().UTC(),
	}

	receipt, err := deps.Notifier.Notify(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "request help: dispatch request %s", req.ID)
	}

	return &HelpOutcome{Request: req, Match: match, Receipt: receipt}, nil
}
