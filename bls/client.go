package bls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const statusSucceeded = "REQUEST_SUCCEEDED"

// OutcomeKind classifies the result of one batch request.
type OutcomeKind int

const (
	// OutcomeSucceeded: HTTP success, service-level success, non-empty data.
	OutcomeSucceeded OutcomeKind = iota
	// OutcomeEmptyOrRejected: HTTP success but the service rejected the
	// request or returned no usable data. The batch is skipped, not fatal.
	OutcomeEmptyOrRejected
	// OutcomeRateLimited: HTTP 429 or the service's daily-threshold signal.
	// Fatal to the run.
	OutcomeRateLimited
	// OutcomeServerError: HTTP 5xx, transport failure, or timeout. Fatal.
	OutcomeServerError
)

// String returns the outcome kind as a short label for logs and error detail.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeEmptyOrRejected:
		return "empty_or_rejected"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "server_error"
	}
}

// Outcome is the classified result of one batch request.
type Outcome struct {
	Kind   OutcomeKind
	Series []Series
	// Detail explains non-success outcomes (status text, messages, HTTP code).
	Detail string
}

// Series is one returned timeseries.
type Series struct {
	SeriesID string        `json:"seriesID"`
	Data     []Observation `json:"data"`
}

// Observation is one year/value data point within a series.
type Observation struct {
	Year   string `json:"year"`
	Period string `json:"period"`
	Value  string `json:"value"`
}

type apiRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

type apiResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []Series `json:"series"`
	} `json:"Results"`
}

// Client posts series batches to the BLS timeseries API. A shared rate
// limiter guarantees the configured minimum delay between request starts,
// regardless of outcome, so the fair-use policy holds across a whole run.
type Client struct {
	baseURL string
	regKey  string
	httpc   *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient builds a Client. delay is the minimum time between the start of
// one request and the start of the next; timeout bounds each request.
func NewClient(baseURL, regKey string, timeout, delay time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		regKey:  regKey,
		httpc:   &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		log:     log,
	}
}

// FetchBatch posts one batch of series IDs for the given year range and
// classifies the response. It never returns an error: every failure mode maps
// to an Outcome kind that the orchestrator matches on.
func (c *Client) FetchBatch(ctx context.Context, seriesIDs []string, startYear, endYear int) Outcome {
	if err := c.limiter.Wait(ctx); err != nil {
		return Outcome{Kind: OutcomeServerError, Detail: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	body, err := json.Marshal(apiRequest{
		SeriesID:        seriesIDs,
		StartYear:       strconv.Itoa(startYear),
		EndYear:         strconv.Itoa(endYear),
		RegistrationKey: c.regKey,
	})
	if err != nil {
		return Outcome{Kind: OutcomeServerError, Detail: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/timeseries/data/", bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: OutcomeServerError, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Transport failures and timeouts are indistinguishable from a sick
		// service as far as the abort policy is concerned.
		return Outcome{Kind: OutcomeServerError, Detail: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Outcome{Kind: OutcomeRateLimited, Detail: "HTTP 429 Too Many Requests"}
	case resp.StatusCode >= 500:
		return Outcome{Kind: OutcomeServerError, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return Outcome{Kind: OutcomeEmptyOrRejected, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Outcome{Kind: OutcomeEmptyOrRejected, Detail: fmt.Sprintf("unexpected response schema: %v", err)}
	}

	if payload.Status != statusSucceeded {
		detail := payload.Status
		if len(payload.Message) > 0 {
			detail += ": " + strings.Join(payload.Message, "; ")
		}
		// The API signals an exhausted daily quota with a 200 response and a
		// threshold message rather than a 429.
		if strings.Contains(strings.ToLower(detail), "threshold") {
			return Outcome{Kind: OutcomeRateLimited, Detail: detail}
		}
		c.log.Warn("bls request rejected", zap.String("status", payload.Status), zap.Strings("messages", payload.Message))
		return Outcome{Kind: OutcomeEmptyOrRejected, Detail: detail}
	}

	if len(payload.Results.Series) == 0 {
		return Outcome{Kind: OutcomeEmptyOrRejected, Detail: "empty series payload"}
	}

	return Outcome{Kind: OutcomeSucceeded, Series: payload.Results.Series}
}
