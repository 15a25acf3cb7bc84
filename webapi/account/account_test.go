package account

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstack/ledgerstack/infra/docstore/memory"
	"github.com/ledgerstack/ledgerstack/internal/fixtures"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/pkg/service/ledger"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	app := common.NewApp("account-api", logger)
	Routes(app, ledger.New(client, logger))
	return app
}

func TestHealth(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "account-api", body["service"])
}

func TestGetAccount(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/1010", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var account domain.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&account))
	assert.Equal(t, "1010", account.ID)
	assert.Len(t, account.PaymentMethods, 2)
}

func TestGetAccountNonNumericID(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestGetAccountNotFound(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListAccountsByUser(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/user/bob.user@contoso.com", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var accounts []domain.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, "1010", accounts[0].ID)
}

func TestListAccountsByUnknownUserIsEmptyArray(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/user/nobody@contoso.com", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var accounts []domain.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	assert.Empty(t, accounts)
}
