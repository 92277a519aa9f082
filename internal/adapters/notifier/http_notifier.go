package notifier

import (
	"bytes"
	"context"
	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/platform/retry"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const maxResponseBytes = 64 << 10

// rejectedError is a 2xx reply carrying success:false.
type rejectedError struct{ reason string }

func (e *rejectedError) Error() string { return "relay rejected message: " + e.reason }

// malformedError is a 2xx reply whose body is not the expected JSON.
type malformedError struct{ err error }

func (e *malformedError) Error() string { return "decode relay response: " + e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

// HTTPNotifier implements ports.Notifier by posting the rendered SMS to a
// relay's /send-sms endpoint. Each attempt has its own deadline; network
// errors, timeouts, 429 and 5xx are retried.
//
// The notifier is safe for concurrent use.
type HTTPNotifier struct {
	client  *http.Client
	url     string
	to      string
	timeout time.Duration
	policy  retry.Policy
}

type Option func(*HTTPNotifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *HTTPNotifier) { n.client = c }
}

// WithAttemptTimeout bounds a single POST, not the whole retry loop.
func WithAttemptTimeout(d time.Duration) Option {
	return func(n *HTTPNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(n *HTTPNotifier) { n.policy = p }
}

// NewHTTPNotifier targets relayURL (the full /send-sms URL) and addresses
// every message to the responder number to.
func NewHTTPNotifier(relayURL, to string, opts ...Option) (*HTTPNotifier, error) {
	u, err := url.Parse(strings.TrimSpace(relayURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, eris.Errorf("notifier: invalid relay url %q", relayURL)
	}
	if strings.TrimSpace(to) == "" {
		return nil, eris.New("notifier: recipient number is empty")
	}

	n := &HTTPNotifier{
		client:  &http.Client{},
		url:     u.String(),
		to:      strings.TrimSpace(to),
		timeout: 10 * time.Second,
		policy:  retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Notify sends req and waits for the relay's acknowledgement. Failures are
// classified as domain.ErrNotifierTransport or domain.ErrNotifierRejected.
func (n *HTTPNotifier) Notify(ctx context.Context, req domain.HelpRequest) (_ domain.Receipt, err error) {
	defer obs.Time(ctx, "notifier.http.Notify")(&err)

	payload, err := json.Marshal(dto.SendSMSRequest{To: n.to, Message: req.SMSBody()})
	if err != nil {
		return domain.Receipt{}, eris.Wrap(err, "notifier: encode request")
	}

	policy := n.policy
	policy.Retryable = func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		// Per-attempt deadline expired while the caller is still waiting.
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		return retry.IsRetryable(err)
	}
	policy.OnRetry = func(attempt int, err error) {
		zap.L().Warn("retrying relay call",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("help_id", req.ID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	resp, err := retry.Do(ctx, policy, func(ctx context.Context) (*dto.SendSMSResponse, error) {
		return n.post(ctx, payload)
	})
	if err != nil {
		return domain.Receipt{}, classify(ctx, err)
	}

	return domain.Receipt{MessageSID: resp.MessageSID}, nil
}

func (n *HTTPNotifier) post(ctx context.Context, payload []byte) (*dto.SendSMSResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	var decoded dto.SendSMSResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && decoded.Error != "" {
			msg = decoded.Error
		}
		return nil, &retry.StatusError{Code: resp.StatusCode, Body: msg}
	}

	if decodeErr != nil {
		return nil, &malformedError{err: decodeErr}
	}
	if !decoded.Success {
		reason := decoded.Error
		if reason == "" {
			reason = "no reason given"
		}
		return nil, &rejectedError{reason: reason}
	}

	return &decoded, nil
}

func classify(ctx context.Context, err error) error {
	var se *retry.StatusError
	var rej *rejectedError

	switch {
	case errors.As(err, &rej):
		return eris.Wrap(domain.ErrNotifierRejected, rej.reason)
	case errors.As(err, &se) && se.Code >= 400 && se.Code < 500:
		return eris.Wrapf(domain.ErrNotifierRejected, "relay answered %d: %s", se.Code, se.Body)
	case errors.As(err, &se):
		return eris.Wrapf(domain.ErrNotifierTransport, "relay answered %d: %s", se.Code, se.Body)
	case ctx.Err() != nil:
		return eris.Wrapf(domain.ErrNotifierTransport, "relay call abandoned: %v", ctx.Err())
	default:
		return eris.Wrapf(domain.ErrNotifierTransport, "relay unreachable: %v", err)
	}
}
