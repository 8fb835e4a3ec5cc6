package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeServiceURL is the public time API queried by NetworkClock.
	DefaultTimeServiceURL = "http://worldtimeapi.org/api/timezone"

	// timeServiceTimeout bounds the external lookup. A failed or slow lookup
	// falls back to the system clock, never an error.
	timeServiceTimeout = 3 * time.Second
)

// NetworkClock resolves "now" from an external time service for a configured
// timezone, falling back to the local system clock when the service is
// unreachable, slow, or returns garbage. The fallback path is silent: callers
// always get a usable time.
type NetworkClock struct {
	Timezone string
	BaseURL  string

	httpClient *http.Client
	logger     *zap.Logger
}

// NewNetworkClock creates a NetworkClock for the given timezone name
// (e.g. "America/Chicago").
func NewNetworkClock(timezone string, logger *zap.Logger) *NetworkClock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkClock{
		Timezone:   timezone,
		BaseURL:    DefaultTimeServiceURL,
		httpClient: &http.Client{Timeout: timeServiceTimeout},
		logger:     logger,
	}
}

type timeServiceResponse struct {
	Datetime string `json:"datetime"`
}

// Now returns the current time in the configured timezone, or the local
// system time if the external lookup fails for any reason.
func (c *NetworkClock) Now() time.Time {
	ctx, cancel := context.WithTimeout(context.Background(), timeServiceTimeout)
	defer cancel()

	tz := strings.ReplaceAll(c.Timezone, "_", "/")
	url := fmt.Sprintf("%s/%s", c.BaseURL, tz)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Now()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("time service unreachable, using system clock", zap.Error(err))
		return time.Now()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("time service returned non-200, using system clock",
			zap.Int("status", resp.StatusCode))
		return time.Now()
	}

	var body timeServiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Debug("time service response unparseable, using system clock", zap.Error(err))
		return time.Now()
	}

	// The service reports wall time in the requested timezone with an offset
	// suffix. Strip the offset: downstream date math is timezone-naive.
	parsed, err := time.Parse(time.RFC3339Nano, body.Datetime)
	if err != nil {
		c.logger.Debug("time service datetime unparseable, using system clock", zap.Error(err))
		return time.Now()
	}

	return time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
		time.Local,
	)
}
