package services

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/ports"
	"errors"

	"github.com/rotisserie/eris"
)

type locateResult struct {
	coords domain.Coordinates
	err    error
}

// AcquireLocation asks locator for the requester's position.
//
// The lookup runs on its own goroutine so the caller gets control back as
// soon as ctx is cancelled, even if the locator ignores cancellation. Every
// failure is reported as ErrLocationUnavailable.
func AcquireLocation(
	ctx context.Context,
	locator ports.Locator,
	query string,
) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "location.Acquire")(&err)

	if locator == nil {
		return domain.Coordinates{}, eris.Wrap(domain.ErrLocationUnavailable, "no location service configured")
	}

	// Buffered so an abandoned lookup can still finish and exit.
	ch := make(chan locateResult, 1)
	go func() {
		c, err := locator.Locate(ctx, query)
		ch <- locateResult{coords: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "location request cancelled: %v", ctx.Err())
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, domain.ErrLocationUnavailable) {
				return domain.Coordinates{}, res.err
			}
			return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "locate %q: %v", query, res.err)
		}
		if err := res.coords.Validate(); err != nil {
			return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "locate %q: %v", query, err)
		}
		return res.coords, nil
	}
}
