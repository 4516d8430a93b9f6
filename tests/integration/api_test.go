package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grinventions/slateboy/config"
	httpHandler "github.com/grinventions/slateboy/internal/adapter/http/handler"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/service"
	"github.com/grinventions/slateboy/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOperator = "operator"
	testPassword = "StrongPass123!"
)

// testApp exposes the full HTTP surface over the in-memory stack: real
// router, middleware, handlers, JWT auth and the services underneath.
type testApp struct {
	*testStack
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	stack := newTestStack(t)
	log := logger.New("debug", false)

	hashSvc := service.NewArgon2HashService()
	passwordHash, err := hashSvc.Hash(testPassword)
	require.NoError(t, err)

	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")
	authSvc := service.NewOpsAuthService(config.OpsConfig{
		Username:     testOperator,
		PasswordHash: passwordHash,
	}, hashSvc, tokenSvc, log)
	reportingSvc := service.NewReportingService(stack.ledger, stack.registry, stack.bank)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:      authSvc,
		Engine:       stack.engine,
		ReportingSvc: reportingSvc,
		Sweeper:      stack.scheduler,
		Ledger:       stack.ledger,
		Registry:     stack.registry,
		TokenSvc:     tokenSvc,
		Logger:       log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{testStack: stack, server: server}
}

// login returns a bearer token for the test operator.
func (a *testApp) login(t *testing.T) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": testOperator,
		"password": testPassword,
	})
	resp, err := http.Post(a.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Data.Token)
	return result.Data.Token
}

func (a *testApp) request(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_LoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(map[string]string{
		"username": testOperator,
		"password": "wrong",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_OpsRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp := app.request(t, http.MethodGet, "/api/v1/bank/stats", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_ChatBridgeDepositFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	// First contact prompts for the terms.
	resp := app.request(t, http.MethodPost, "/api/v1/chat/events", token, map[string]any{
		"user_id": 42, "command": "deposit", "text": "1.5",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Replies []struct {
				Target string `json:"target"`
				Text   string `json:"text"`
			} `json:"replies"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Data.Replies, 2)
	assert.Contains(t, result.Data.Replies[0].Text, "terms of custody")

	// Approve and retry; the engine answers with instructions and the
	// slatepack for the private channel.
	resp = app.request(t, http.MethodPost, "/api/v1/chat/events", token, map[string]any{
		"user_id": 42, "command": "approve",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/v1/chat/events", token, map[string]any{
		"user_id": 42, "command": "deposit", "text": "1.5",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result.Data.Replies = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Data.Replies, 2)
	assert.Equal(t, "origin", result.Data.Replies[0].Target)
	assert.Equal(t, "private", result.Data.Replies[1].Target)
	assert.Contains(t, result.Data.Replies[1].Text, "BEGINSLATEPACK")

	// The operator sees the reserved funds and the open transaction.
	resp = app.request(t, http.MethodGet, "/api/v1/users/42/balance", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balanceResult struct {
		Data struct {
			Balance struct {
				AwaitingFinalization int64 `json:"awaiting_finalization"`
			} `json:"balance"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&balanceResult))
	assert.Equal(t, int64(1_500_000_000), balanceResult.Data.Balance.AwaitingFinalization)

	resp = app.request(t, http.MethodGet, "/api/v1/transactions", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var txResult struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txResult))
	assert.Equal(t, 1, txResult.Data.Count)
}

func TestIntegration_ManualSweepTrigger(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	resp := app.request(t, http.MethodPost, "/api/v1/sweeps/transactions", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/v1/sweeps/accounting", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestIntegration_BankStats(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	sender := ports.Sender{UserID: 11}
	app.onboard(t, sender)

	resp := app.request(t, http.MethodGet, "/api/v1/bank/stats", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Users        int64 `json:"users"`
			ChargedTotal int64 `json:"charged_total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(1), result.Data.Users)
}
