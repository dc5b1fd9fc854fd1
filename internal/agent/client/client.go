package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/finlock/finlock-agent/internal/agent/device/errors"
	"github.com/finlock/finlock-agent/pkg/log"
	"github.com/go-resty/resty/v2"
)

const defaultRequestTimeout = 30 * time.Second

var _ Backend = (*HTTPBackend)(nil)

// HTTPBackend is the resty-based implementation of the Backend interface.
type HTTPBackend struct {
	client *resty.Client
	log    *log.PrefixLogger
}

// NewHTTPBackend creates a backend client for the given endpoint. The
// enrollment credential authenticates every request.
func NewHTTPBackend(endpoint, credential string, log *log.PrefixLogger) *HTTPBackend {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(defaultRequestTimeout).
		SetHeader("Content-Type", "application/json")
	if credential != "" {
		client.SetAuthToken(credential)
	}
	return &HTTPBackend{
		client: client,
		log:    log,
	}
}

func (b *HTTPBackend) RegisterPushToken(ctx context.Context, deviceID, token string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		Post(fmt.Sprintf("/api/v1/devices/%s/push-token", deviceID))
	return b.check(resp, err, "registering push token")
}

func (b *HTTPBackend) ReportLockOutcome(ctx context.Context, report *LockOutcomeReport) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(report).
		Post(fmt.Sprintf("/api/v1/devices/%s/lock-outcomes", report.DeviceID))
	return b.check(resp, err, "reporting lock outcome")
}

func (b *HTTPBackend) FetchEnterprisePolicy(ctx context.Context, deviceID string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(fmt.Sprintf("/api/v1/devices/%s/policy", deviceID))
	if err != nil {
		return nil, fmt.Errorf("fetching policy: %w", err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil, errors.ErrNoContent
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching policy: unexpected status code %d", resp.StatusCode())
	}
	if doc == nil {
		return nil, errors.ErrNilResponse
	}
	return doc, nil
}

func (b *HTTPBackend) ReportCompliance(ctx context.Context, report *ComplianceReport) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(report).
		Post(fmt.Sprintf("/api/v1/devices/%s/compliance", report.DeviceID))
	return b.check(resp, err, "reporting compliance")
}

func (b *HTTPBackend) UploadLocation(ctx context.Context, deviceID string, fix *LocationFix) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(fix).
		Post(fmt.Sprintf("/api/v1/devices/%s/locations", deviceID))
	return b.check(resp, err, "uploading location")
}

func (b *HTTPBackend) Ping(ctx context.Context, deviceID string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/v1/devices/%s/ping", deviceID))
	return b.check(resp, err, "ping")
}

func (b *HTTPBackend) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: unexpected status code %d", op, resp.StatusCode())
	}
	return nil
}
