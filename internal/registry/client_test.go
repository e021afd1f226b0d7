package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/rematch/internal/service"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	// Keep retry backoff out of test runtime.
	client.retryOpts = service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}
	return client, srv
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{BaseURL: "https://api.example.com", APIKey: "k"}},
		{name: "missing base URL", cfg: Config{APIKey: "k"}, wantErr: true},
		{name: "missing API key", cfg: Config{BaseURL: "https://api.example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_DriversForDate(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"drivers":[
			{"id":"D1","full_name":"Ana Silva","phone":"5215512345678"},
			{"driver_id":"D2","name":"Juan Perez","license":"LIC-9"}
		]}`))
	}))

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	drivers, err := client.DriversForDate(context.Background(), date, "scope-1")
	require.NoError(t, err)

	assert.Equal(t, "/v1/drivers?date=2024-03-15&scope_id=scope-1", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)

	require.Len(t, drivers, 2)
	assert.Equal(t, "D1", drivers[0].ID)
	assert.Equal(t, "Ana Silva", drivers[0].FullName)
	assert.Equal(t, "D2", drivers[1].DriverID)
	assert.Equal(t, "LIC-9", drivers[1].License)
}

func TestClient_AssignTransactionsRequestShape(t *testing.T) {
	var got map[string]any
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transactions/assign", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.AssignTransactions(context.Background(), []int64{7, 8}, "D1", []int64{41})
	require.NoError(t, err)

	assert.Equal(t, "D1", got["driver_id"])
	assert.Equal(t, []any{float64(7), float64(8)}, got["transaction_ids"])
	assert.Equal(t, []any{float64(41)}, got["milestone_ids"])
}

func TestClient_AssignTransactionsOmitsEmptyMilestones(t *testing.T) {
	var got map[string]any
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.AssignTransactions(context.Background(), []int64{7}, "D1", nil))
	_, present := got["milestone_ids"]
	assert.False(t, present)
}

func TestClient_AssignLeadPath(t *testing.T) {
	var gotPath string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.AssignLead(context.Background(), "L1", "D1"))
	assert.Equal(t, "/v1/leads/L1/assign", gotPath)
}

func TestClient_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"already_assigned","message":"lead already assigned"}`))
	}))

	err := client.AssignLead(context.Background(), "L1", "D1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already_assigned")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServerErrorRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"leads":[{"id":"L1","first_name":"Ana","last_name":"Silva"}]}`))
	}))

	leads, err := client.UnmatchedLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana", leads[0].FirstName)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RateLimitRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"transactions":[]}`))
	}))

	txns, err := client.UnmatchedTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ReprocessDecodesSummary(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions/reprocess", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"done","total":12,"matched":9,"unmatched":3}`))
	}))

	summary, err := client.ReprocessTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, 9, summary.Matched)
	assert.Equal(t, 3, summary.Unmatched)
}

func TestClient_DriverMilestones(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/drivers/D1/milestones", r.URL.Path)
		_, _ = w.Write([]byte(`{"milestones":[{"id":41,"type":"trips_50","period_days":30}]}`))
	}))

	milestones, err := client.DriverMilestones(context.Background(), "D1")
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, int64(41), milestones[0].ID)
	assert.Equal(t, "trips_50", milestones[0].Type)
	assert.Equal(t, 30, milestones[0].PeriodDays)
}
