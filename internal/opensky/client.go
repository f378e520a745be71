package opensky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/flightwatch/internal/model"
)

// Config holds OpenSky client settings. ClientID/ClientSecret are optional;
// without them the client runs anonymously at lower rate limits.
type Config struct {
	BaseURL      string
	AuthURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client fetches aircraft state vectors from the OpenSky Network API.
type Client struct {
	baseURL    string
	authURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	token      string
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		authURL:  cfg.AuthURL,
		clientID: cfg.ClientID,
		secret:   cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// Authenticate fetches an OAuth2 token via the client-credentials grant.
// A failure here is not fatal; callers may continue anonymously.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.clientID == "" || c.secret == "" {
		c.log.Info().Msg("no opensky credentials configured, using anonymous access")
		return nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	c.token = body.AccessToken
	c.log.Info().Msg("opensky client authenticated")
	return nil
}

// FetchStates returns the current state vectors inside region. Failures
// carry a FetchReason so they classify without message inspection.
func (c *Client) FetchStates(ctx context.Context, region model.Region) (model.StateVectorBatch, error) {
	q := url.Values{
		"lamin": {formatCoord(region.LatMin)},
		"lomin": {formatCoord(region.LonMin)},
		"lamax": {formatCoord(region.LatMax)},
		"lomax": {formatCoord(region.LonMax)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/states/all?"+q.Encode(), nil)
	if err != nil {
		return model.StateVectorBatch{}, &FetchError{Reason: ReasonConnection, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.StateVectorBatch{}, &FetchError{Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return model.StateVectorBatch{}, &FetchError{
			Reason:     ReasonRateLimit,
			HTTPStatus: resp.StatusCode,
			RetryAfter: retryAfter(resp),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return model.StateVectorBatch{}, &FetchError{Reason: ReasonStatus, HTTPStatus: resp.StatusCode}
	}

	var sr statesResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return model.StateVectorBatch{}, &FetchError{Reason: ReasonDecode, Err: err}
	}

	batch, err := sr.toBatch()
	if err != nil {
		return model.StateVectorBatch{}, &FetchError{Reason: ReasonDecode, Err: err}
	}

	c.log.Debug().Int("states", len(batch.States)).Time("snapshot", batch.Time).Msg("fetched state vectors")
	return batch, nil
}

// transportReason distinguishes deadline expiry from connectivity failures.
func transportReason(err error) FetchReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonConnection
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
