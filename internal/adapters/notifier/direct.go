package notifier

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/ports"
	"strings"

	"github.com/rotisserie/eris"
)

// Direct implements ports.Notifier in-process: it renders the SMS and hands
// it straight to the provider, skipping the HTTP relay hop.
type Direct struct {
	sender ports.SMSSender
	to     string
}

func NewDirect(sender ports.SMSSender, to string) (*Direct, error) {
	if sender == nil {
		return nil, eris.New("notifier: sms sender is nil")
	}
	if strings.TrimSpace(to) == "" {
		return nil, eris.New("notifier: recipient number is empty")
	}
	return &Direct{sender: sender, to: strings.TrimSpace(to)}, nil
}

func (d *Direct) Notify(ctx context.Context, req domain.HelpRequest) (_ domain.Receipt, err error) {
	defer obs.Time(ctx, "notifier.direct.Notify")(&err)

	sid, err := d.sender.Send(ctx, d.to, req.SMSBody())
	if err != nil {
		return domain.Receipt{}, eris.Wrapf(domain.ErrNotifierRejected, "sms provider: %v", err)
	}
	return domain.Receipt{MessageSID: sid}, nil
}
