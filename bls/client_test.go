package bls

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second, time.Millisecond, zap.NewNop())
}

func TestFetchBatch_Succeeded(t *testing.T) {
	var gotBody apiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "REQUEST_SUCCEEDED",
			"Results": map[string]interface{}{
				"series": []map[string]interface{}{
					{
						"seriesID": "OEUM001242000000015125203",
						"data":     []map[string]string{{"year": "2024", "period": "A01", "value": "132270"}},
					},
				},
			},
		})
	})

	outcome := client.FetchBatch(context.Background(), []string{"OEUM001242000000015125203"}, 2024, 2024)

	assert.Equal(t, OutcomeSucceeded, outcome.Kind)
	require.Len(t, outcome.Series, 1)
	assert.Equal(t, "OEUM001242000000015125203", outcome.Series[0].SeriesID)
	assert.Equal(t, "132270", outcome.Series[0].Data[0].Value)

	assert.Equal(t, []string{"OEUM001242000000015125203"}, gotBody.SeriesID)
	assert.Equal(t, "2024", gotBody.StartYear)
	assert.Equal(t, "2024", gotBody.EndYear)
	assert.Equal(t, "test-key", gotBody.RegistrationKey)
}

func TestFetchBatch_Classification(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected OutcomeKind
	}{
		{
			"http 429 is rate limited",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
			OutcomeRateLimited,
		},
		{
			"http 500 is server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			OutcomeServerError,
		},
		{
			"http 503 is server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
			OutcomeServerError,
		},
		{
			"http 400 is rejected",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) },
			OutcomeEmptyOrRejected,
		},
		{
			"daily threshold message is rate limited",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  "REQUEST_NOT_PROCESSED",
					"message": []string{"daily threshold of 500 requests has been reached"},
				})
			},
			OutcomeRateLimited,
		},
		{
			"service-level rejection is skipped",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  "REQUEST_NOT_PROCESSED",
					"message": []string{"invalid series id"},
				})
			},
			OutcomeEmptyOrRejected,
		},
		{
			"success with empty series is skipped",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  "REQUEST_SUCCEEDED",
					"Results": map[string]interface{}{"series": []interface{}{}},
				})
			},
			OutcomeEmptyOrRejected,
		},
		{
			"unparsable body is skipped",
			func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) },
			OutcomeEmptyOrRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			outcome := client.FetchBatch(context.Background(), []string{"OEUM001242000000015125203"}, 2024, 2024)
			assert.Equal(t, tt.expected, outcome.Kind, "detail: %s", outcome.Detail)
		})
	}
}

func TestFetchBatch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "", time.Second, time.Millisecond, zap.NewNop())
	outcome := client.FetchBatch(context.Background(), []string{"OEUM001242000000015125203"}, 2024, 2024)

	assert.Equal(t, OutcomeServerError, outcome.Kind)
	assert.Contains(t, outcome.Detail, "request failed")
}

func TestFetchBatch_MinimumDelayBetweenRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "REQUEST_SUCCEEDED"})
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "", time.Second, 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	client.FetchBatch(context.Background(), []string{"a"}, 2024, 2024)
	client.FetchBatch(context.Background(), []string{"b"}, 2024, 2024)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
}
