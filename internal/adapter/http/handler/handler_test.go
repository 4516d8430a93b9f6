package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/core/ports/mocks"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Test doubles for the handler-local interfaces ---

type stubAuthService struct {
	token string
	err   error
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return s.token, time.Now().Add(24 * time.Hour), nil
}

type stubReporting struct {
	stats *domain.BankStats
	err   error
}

func (s *stubReporting) Stats(_ context.Context) (*domain.BankStats, error) {
	return s.stats, s.err
}

type stubSweeper struct {
	txErr   error
	acctErr error
	txRuns  int
}

func (s *stubSweeper) SweepTransactions(_ context.Context) error {
	s.txRuns++
	return s.txErr
}

func (s *stubSweeper) SweepAccounting(_ context.Context) error { return s.acctErr }

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(_ context.Context) error { return s.err }

// --- Auth Handler Tests ---

func TestLogin_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{token: "jwt-token-123"})

	body, _ := json.Marshal(loginRequest{Username: "operator", Password: "secret"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
	assert.NotEmpty(t, data["expires_at"])
}

func TestLogin_BadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: apperror.ErrInvalidCredentials()})

	body, _ := json.Marshal(loginRequest{Username: "operator", Password: "wrong"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTH_001", resp["error_code"])
}

func TestLogin_ValidationError(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Ops Handler Tests ---

func TestGetUserBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	ledger.EXPECT().Get(gomock.Any(), int64(42)).Return(&domain.Account{
		UserID:  42,
		Balance: domain.Balance{Spendable: 5_000_000_000},
	}, nil)

	h := NewOpsHandler(ledger, nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.GetUserBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["user_id"])
}

func TestGetUserBalance_BadID(t *testing.T) {
	h := NewOpsHandler(nil, nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-number"}}

	h.GetUserBalance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserBalance_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	ledger.EXPECT().Get(gomock.Any(), int64(7)).Return(nil, nil)

	h := NewOpsHandler(ledger, nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.GetUserBalance(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LED_002", resp["error_code"])
}

func TestGetStats_Success(t *testing.T) {
	h := NewOpsHandler(nil, nil, &stubReporting{stats: &domain.BankStats{
		ChargedTotal:     2_000_000_000,
		OpenTransactions: 3,
		Users:            12,
	}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["users"])
}

func TestListOpenTransactions_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockRegistryRepository(ctrl)
	registry.EXPECT().ListOpen(gomock.Any()).Return([]domain.Transaction{
		{ID: "tx-1", UserID: 42, Kind: domain.OperationDeposit, Status: domain.TransactionStatusAssigned},
	}, nil)

	h := NewOpsHandler(nil, registry, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.ListOpenTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
}

func TestTriggerTransactionSweep_Accepted(t *testing.T) {
	sweeper := &stubSweeper{}
	h := NewOpsHandler(nil, nil, nil, sweeper)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.TriggerTransactionSweep(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, sweeper.txRuns)
}

func TestTriggerAccountingSweep_Error(t *testing.T) {
	h := NewOpsHandler(nil, nil, nil, &stubSweeper{acctErr: errors.New("redis down")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.TriggerAccountingSweep(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Chat Handler Tests ---

type stubChatEngine struct {
	lastCommand string
	lastSender  ports.Sender
	lastText    string
	lastMax     bool
	replies     []domain.Reply
	err         error
}

func (s *stubChatEngine) record(cmd string, sender ports.Sender, text string) ([]domain.Reply, error) {
	s.lastCommand = cmd
	s.lastSender = sender
	s.lastText = text
	return s.replies, s.err
}

func (s *stubChatEngine) Deposit(_ context.Context, sender ports.Sender, raw string) ([]domain.Reply, error) {
	return s.record("deposit", sender, raw)
}

func (s *stubChatEngine) Withdraw(_ context.Context, sender ports.Sender, raw string, max bool) ([]domain.Reply, error) {
	s.lastMax = max
	return s.record("withdraw", sender, raw)
}

func (s *stubChatEngine) Balance(_ context.Context, sender ports.Sender) ([]domain.Reply, error) {
	return s.record("balance", sender, "")
}

func (s *stubChatEngine) HandleSlatepack(_ context.Context, sender ports.Sender, text string) ([]domain.Reply, error) {
	return s.record("slatepack", sender, text)
}

func (s *stubChatEngine) ApproveEULA(_ context.Context, sender ports.Sender) ([]domain.Reply, error) {
	return s.record("approve", sender, "")
}

func (s *stubChatEngine) DenyEULA(_ context.Context, sender ports.Sender) ([]domain.Reply, error) {
	return s.record("deny", sender, "")
}

func postChatEvent(t *testing.T, h *ChatHandler, req chatEventRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.HandleEvent(c)
	return w
}

func TestChatEvent_Deposit(t *testing.T) {
	engine := &stubChatEngine{replies: []domain.Reply{domain.OriginReply("check your private chat")}}
	h := NewChatHandler(engine)

	w := postChatEvent(t, h, chatEventRequest{UserID: 42, Command: "deposit", Text: "1.5"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deposit", engine.lastCommand)
	assert.Equal(t, int64(42), engine.lastSender.UserID)
	assert.Equal(t, "1.5", engine.lastText)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	replies := data["replies"].([]interface{})
	require.Len(t, replies, 1)
	first := replies[0].(map[string]interface{})
	assert.Equal(t, "origin", first["target"])
}

func TestChatEvent_WithdrawMax(t *testing.T) {
	engine := &stubChatEngine{}
	h := NewChatHandler(engine)

	w := postChatEvent(t, h, chatEventRequest{UserID: 7, Command: "withdraw", Max: true})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "withdraw", engine.lastCommand)
	assert.True(t, engine.lastMax)
}

func TestChatEvent_UnknownCommand(t *testing.T) {
	h := NewChatHandler(&stubChatEngine{})

	w := postChatEvent(t, h, chatEventRequest{UserID: 7, Command: "transmogrify"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REQ_003", resp["error_code"])
}

func TestChatEvent_EngineError(t *testing.T) {
	h := NewChatHandler(&stubChatEngine{err: apperror.ErrWalletNotReady("syncing")})

	w := postChatEvent(t, h, chatEventRequest{UserID: 7, Command: "balance"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatEvent_NilRepliesSerializeAsEmptyList(t *testing.T) {
	h := NewChatHandler(&stubChatEngine{})

	w := postChatEvent(t, h, chatEventRequest{UserID: 7, Command: "balance"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	replies, ok := data["replies"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, replies)
}

// --- Health Check Tests ---

func TestHealthCheck_AllHealthy(t *testing.T) {
	h := HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := HealthCheck(
		stubChecker{name: "postgresql"},
		stubChecker{name: "wallet", err: errors.New("owner api unreachable")},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	wallet := deps["wallet"].(map[string]interface{})
	assert.Equal(t, "unhealthy", wallet["status"])
}
