// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package admission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/netutil"
)

// Defaults applied by NewClient.
const (
	DefaultBaseURL   = "https://www.tedxbedayia.com/api/tickets"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "TEDxBedayia-Usher-App/1.0"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the tickets API root. Defaults to DefaultBaseURL.
	// Must be http or https.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient. Its own Timeout, if any, also applies.
	HTTPClient *http.Client

	// Clock arms the request timeout. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// UserAgent is sent on every request. Defaults to
	// DefaultUserAgent.
	UserAgent string
}

// Client calls the tickets API. Safe for concurrent use; it does not
// serialize calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a Client. Returns an error for an unusable base
// URL.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("admission: parsing base URL %q: %w", baseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("admission: base URL must be an absolute http or https URL (got %q)", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
		timeout:    timeout,
		userAgent:  userAgent,
	}, nil
}

// Admit checks in the ticket id on behalf of deviceUID.
func (client *Client) Admit(ctx context.Context, id, appKey, deviceUID string) Response {
	query := url.Values{}
	query.Set("key", appKey)
	query.Set("device", deviceUID)
	path := "/admit/" + url.PathEscape(id)

	return client.ticketCall(ctx, http.MethodGet, path, query, nil)
}

// SellOnDoor creates a walk-up ticket. The payment method and sender
// username are sent as given; validation is the caller's job.
func (client *Client) SellOnDoor(ctx context.Context, ticket OnDoorTicket, appKey, deviceUID string) Response {
	body := onDoorRequest{
		Name:           ticket.Name,
		Email:          ticket.Email,
		Phone:          ticket.Phone,
		PaymentMethod:  ticket.PaymentMethod,
		SenderUsername: ticket.SenderUsername,
		Key:            appKey,
		Device:         deviceUID,
	}
	return client.ticketCall(ctx, http.MethodPost, "/on-door", nil, body)
}

// OnDoorInfo fetches the on-door price and payment methods. Errors are
// always *Failure.
func (client *Client) OnDoorInfo(ctx context.Context) (*OnDoorInfo, error) {
	status, body, failure := client.do(ctx, http.MethodGet, "/on-door/info", nil, nil)
	if failure != nil {
		return nil, failure
	}
	if status != http.StatusOK {
		return nil, rejection(body)
	}

	var info OnDoorInfo
	if err := json.Unmarshal(body, &info); err != nil {
		client.logger.Warn("unparseable on-door info", "error", err)
		return nil, &Failure{Message: MessageInvalidResponse}
	}
	return &info, nil
}

// ticketCall runs a request whose 200 body is {"applicant": {...}}.
func (client *Client) ticketCall(ctx context.Context, method, path string, query url.Values, requestBody any) Response {
	status, body, failure := client.do(ctx, method, path, query, requestBody)
	if failure != nil {
		return failure
	}
	if status != http.StatusOK {
		failure := rejection(body)
		client.logger.Info("ticket API rejected request",
			"method", method,
			"path", path,
			"status", status,
			"message", failure.Message,
		)
		return failure
	}

	var wire struct {
		Applicant *Applicant `json:"applicant"`
	}
	if err := json.Unmarshal(body, &wire); err != nil || wire.Applicant == nil {
		client.logger.Warn("invalid ticket API response", "method", method, "path", path, "error", err)
		return &Failure{Message: MessageInvalidResponse}
	}
	return &Success{Applicant: *wire.Applicant}
}

// rejection builds the Failure for a non-200 body.
func rejection(body []byte) *Failure {
	var wire errorBody
	if err := json.Unmarshal(body, &wire); err != nil || wire.Error == "" {
		return &Failure{Message: MessageUnknownError}
	}
	return &Failure{Message: wire.Error}
}

// do executes one request under the client timeout and returns the
// status and bounded body. Any transport failure, including the
// timeout, comes back as a network Failure.
func (client *Client) do(ctx context.Context, method, path string, query url.Values, requestBody any) (int, []byte, *Failure) {
	requestContext, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timer := client.clock.AfterFunc(client.timeout, func() {
		cancel(errTimedOut)
	})
	defer timer.Stop()

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			client.logger.Error("encoding ticket API request", "path", path, "error", err)
			return 0, nil, &Failure{Message: err.Error(), Network: true}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	target := client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(requestContext, method, target, bodyReader)
	if err != nil {
		client.logger.Error("creating ticket API request", "path", path, "error", err)
		return 0, nil, &Failure{Message: err.Error(), Network: true}
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", client.userAgent)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	client.logger.Debug("ticket API request", "method", method, "path", path)
	started := client.clock.Now()

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, nil, client.transportFailure(requestContext, method, path, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return 0, nil, client.transportFailure(requestContext, method, path, err)
	}

	client.logger.Debug("ticket API response",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"elapsed", client.clock.Now().Sub(started),
	)
	return response.StatusCode, body, nil
}

// errTimedOut is the cancellation cause set when the client timeout
// fires.
var errTimedOut = errors.New("admission: request timed out")

func (client *Client) transportFailure(requestContext context.Context, method, path string, err error) *Failure {
	// A cancelled request context means the timeout fired or the
	// caller gave up; either way the request was aborted.
	if requestContext.Err() != nil {
		client.logger.Warn("ticket API request aborted",
			"method", method,
			"path", path,
			"cause", context.Cause(requestContext),
		)
		return &Failure{Message: MessageTimeout, Network: true}
	}

	kind := netutil.Classify(err)
	client.logger.Warn("ticket API transport failure",
		"method", method,
		"path", path,
		"kind", kind.String(),
		"error", redact(err),
	)

	switch kind {
	case netutil.KindTimeout:
		return &Failure{Message: MessageTimeout, Network: true}
	case netutil.KindConnectivity:
		return &Failure{Message: MessageNoConnection, Network: true}
	default:
		return &Failure{Message: transportMessage(err), Network: true}
	}
}

// transportMessage is the message for an unclassified transport
// error: the underlying error text without the request URL, which
// carries the app key.
func transportMessage(err error) string {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return urlError.Err.Error()
	}
	return err.Error()
}

// redact returns err's text with the request URL removed.
func redact(err error) string {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return fmt.Sprintf("%s: %v", urlError.Op, urlError.Err)
	}
	return err.Error()
}
