package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drivesafe-service/internal/api/dto"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/services"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	to, body string
	sid      string
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.to, f.body = to, body
	return f.sid, f.err
}

type fakeNotifier struct {
	got     []domain.HelpRequest
	receipt domain.Receipt
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, req domain.HelpRequest) (domain.Receipt, error) {
	f.got = append(f.got, req)
	return f.receipt, f.err
}

type fakeLocator struct {
	coords domain.Coordinates
	err    error
}

func (f fakeLocator) Locate(context.Context, string) (domain.Coordinates, error) {
	return f.coords, f.err
}

func testDirectory() *services.CenterDirectory {
	return services.NewCenterDirectory([]domain.EmergencyCenter{
		{ID: 1, Name: "Connaught Hospital", Location: domain.Coordinates{Lat: 8.4870, Lng: -13.2356}},
		{ID: 2, Name: "Bo Government Hospital", Location: domain.Coordinates{Lat: 7.9647, Lng: -11.7383}},
	})
}

type fixture struct {
	handler  http.Handler
	sender   *fakeSender
	notifier *fakeNotifier
}

func newFixture(t *testing.T, mutate func(*RouterDeps)) *fixture {
	t.Helper()
	f := &fixture{
		sender:   &fakeSender{sid: "SM1"},
		notifier: &fakeNotifier{receipt: domain.Receipt{MessageSID: "SM2"}},
	}
	deps := RouterDeps{
		Directory: testDirectory(),
		Sender:    f.sender,
		Help: services.HelpDeps{
			Locator:  fakeLocator{coords: domain.Coordinates{Lat: 7.96, Lng: -11.74}},
			Notifier: f.notifier,
		},
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.handler = NewRouter(deps)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := newFixture(t, nil).do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestSendSMS(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodPost, "/send-sms", `{"to":"+23234872268","message":"Emergency! Help needed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.SendSMSResponse](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "SM1", res.MessageSID)
	assert.Equal(t, "+23234872268", f.sender.to)
	assert.Equal(t, "Emergency! Help needed", f.sender.body)
}

func TestSendSMSValidation(t *testing.T) {
	cases := map[string]string{
		"bad number":    `{"to":"23234872268","message":"hi"}`,
		"empty message": `{"to":"+23234872268","message":"  "}`,
		"unknown field": `{"to":"+23234872268","message":"hi","from":"+1"}`,
		"not json":      `nope`,
		"two objects":   `{"to":"+23234872268","message":"hi"}{}`,
		"too long":      `{"to":"+23234872268","message":"` + strings.Repeat("a", maxSMSTestChars) + `"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			rec := f.do(http.MethodPost, "/send-sms", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			res := decode[dto.SendSMSResponse](t, rec)
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Error)
			assert.Empty(t, f.sender.to)
		})
	}
}

const maxSMSTestChars = 1601

func TestSendSMSProviderFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.sender.err = errors.New("twilio: 21608 unverified")

	rec := f.do(http.MethodPost, "/send-sms", `{"to":"+23234872268","message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	res := decode[dto.SendSMSResponse](t, rec)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestSendSMSRateLimited(t *testing.T) {
	f := newFixture(t, func(d *RouterDeps) { d.SMSRatePerMin = 1 })

	first := f.do(http.MethodPost, "/send-sms", `{"to":"+23234872268","message":"hi"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := f.do(http.MethodPost, "/send-sms", `{"to":"+23234872268","message":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.False(t, decode[dto.SendSMSResponse](t, second).Success)
}

func TestSendSMSWithoutSender(t *testing.T) {
	f := newFixture(t, func(d *RouterDeps) { d.Sender = nil })
	rec := f.do(http.MethodPost, "/send-sms", `{"to":"+23234872268","message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListCenters(t *testing.T) {
	rec := newFixture(t, nil).do(http.MethodGet, "/centers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListCentersResponse](t, rec)
	require.Len(t, res.Centers, 2)
	assert.Equal(t, "Connaught Hospital", res.Centers[0].Name)
	assert.Equal(t, 2, res.Centers[1].ID)
}

func TestNearestCenter(t *testing.T) {
	rec := newFixture(t, nil).do(http.MethodGet, "/centers/nearest?lat=7.95&lng=-11.70", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.NearestCenterResponse](t, rec)
	assert.Equal(t, "Bo Government Hospital", res.Center.Name)
	assert.Greater(t, res.DistanceKm, 0.0)
	assert.Less(t, res.DistanceKm, 10.0)
}

func TestNearestCenterBadInput(t *testing.T) {
	f := newFixture(t, nil)
	for _, q := range []string{"", "?lat=abc&lng=1", "?lat=91&lng=0", "?lat=NaN&lng=0"} {
		rec := f.do(http.MethodGet, "/centers/nearest"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestNearestCenterEmptyCatalog(t *testing.T) {
	f := newFixture(t, func(d *RouterDeps) { d.Directory = services.NewCenterDirectory(nil) })
	rec := f.do(http.MethodGet, "/centers/nearest?lat=1&lng=1", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHelpWithCoordinates(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodPost, "/help", `{"latitude":8.48,"longitude":-13.23,"emergency_type":"fire","message":"smoke"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.HelpResponse](t, rec)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, "Connaught Hospital", res.NearestCenter.Name)
	assert.Equal(t, "SM2", res.MessageSID)

	require.Len(t, f.notifier.got, 1)
	sent := f.notifier.got[0]
	assert.Equal(t, domain.EmergencyFire, sent.EmergencyType)
	assert.Equal(t, "smoke", sent.FreeTextMessage)
	assert.Equal(t, res.RequestID, sent.ID)
}

func TestHelpWithAddress(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodPost, "/help", `{"address":"Bo, Sierra Leone"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Bo Government Hospital", decode[dto.HelpResponse](t, rec).NearestCenter.Name)
}

func TestHelpBadInput(t *testing.T) {
	cases := map[string]string{
		"no location":    `{"message":"help"}`,
		"half location":  `{"latitude":8.4}`,
		"bad type":       `{"latitude":8.4,"longitude":-13.2,"emergency_type":"flood"}`,
		"out of range":   `{"latitude":100,"longitude":-13.2}`,
		"unknown fields": `{"lat":8.4}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			rec := f.do(http.MethodPost, "/help", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Empty(t, f.notifier.got)
		})
	}
}

func TestHelpErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RouterDeps)
		body   string
		status int
	}{
		{
			name: "location unavailable",
			mutate: func(d *RouterDeps) {
				d.Help.Locator = fakeLocator{err: eris.Wrap(domain.ErrLocationUnavailable, "denied")}
			},
			body:   `{"address":"nowhere"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "empty catalog",
			mutate: func(d *RouterDeps) { d.Directory = services.NewCenterDirectory(nil) },
			body:   `{"latitude":1,"longitude":1}`,
			status: http.StatusServiceUnavailable,
		},
		{
			name: "relay rejected",
			mutate: func(d *RouterDeps) {
				d.Help.Notifier = &fakeNotifier{err: eris.Wrap(domain.ErrNotifierRejected, "bad number")}
			},
			body:   `{"latitude":1,"longitude":1}`,
			status: http.StatusBadGateway,
		},
		{
			name: "relay down",
			mutate: func(d *RouterDeps) {
				d.Help.Notifier = &fakeNotifier{err: eris.Wrap(domain.ErrNotifierTransport, "refused")}
			},
			body:   `{"latitude":1,"longitude":1}`,
			status: http.StatusBadGateway,
		},
		{
			name:   "no notifier",
			mutate: func(d *RouterDeps) { d.Help.Notifier = nil },
			body:   `{"latitude":1,"longitude":1}`,
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := newFixture(t, tc.mutate).do(http.MethodPost, "/help", tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/send-sms", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
