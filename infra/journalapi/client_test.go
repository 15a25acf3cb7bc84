package journalapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

func TestAppendPostsToAccountRoute(t *testing.T) {
	var gotPath string
	var gotBody domain.Transaction
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		gotBody.Timestamp = "2023-06-15T09:15:00.000000"
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(gotBody))
	}))
	defer srv.Close()

	client := New(srv.URL+"/api", 2*time.Second)
	stored, err := client.Append(context.Background(), "1010", domain.Transaction{
		ID:          "tx-1",
		Description: "test",
		Amount:      decimal.RequireFromString("-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/transactions/1010", gotPath)
	assert.Equal(t, "tx-1", stored.ID)
	assert.Equal(t, "2023-06-15T09:15:00.000000", stored.Timestamp)
}

func TestAppendNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"accountId must be a non-empty number"}`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/api", 2*time.Second)
	_, err := client.Append(context.Background(), "abc", domain.Transaction{ID: "tx-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestAppendUnreachableServerIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := New(srv.URL+"/api", 500*time.Millisecond)
	_, err := client.Append(context.Background(), "1010", domain.Transaction{ID: "tx-1"})
	assert.Error(t, err)
}
