package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamugarba/thanledger/internal/application/auth"
	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
	"github.com/adamugarba/thanledger/internal/domain/risk"
	"github.com/adamugarba/thanledger/internal/infrastructure/chat"
	"github.com/adamugarba/thanledger/internal/infrastructure/memory"
	apphttp "github.com/adamugarba/thanledger/internal/interfaces/http"
	"github.com/adamugarba/thanledger/pkg/logger"
)

// stubClassifier returns a canned result (or error) instead of calling a
// language model.
type stubClassifier struct {
	result *dto.IntentResult
	err    error
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (*dto.IntentResult, error) {
	return s.result, s.err
}

func buildChatApp(t *testing.T, classifier *stubClassifier, thans repository.ThanRepository) *fiber.App {
	t.Helper()
	customers := memory.NewCustomerRepository()
	store := inventory.NewStore(thans, 3)
	posting := ledger.NewPostingService(memory.NewLedgerRepository())
	stockLog := stock.NewLog(memory.NewStockMovementRepository(), logger.Nop())
	dupes := workflow.NewDuplicateGuard(time.Minute)
	orch := workflow.NewOrchestrator(
		store, memory.NewApprovalRepository(), customers, posting, stockLog,
		chat.NewLogNotifier(logger.Nop()), risk.Config{Policy: risk.PolicyRoleGated}, dupes, logger.Nop(),
	)
	authUC := auth.NewAuthUseCase(memory.NewUserRepository(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		Orchestrator: orch,
		Classifier:   classifier,
		Store:        store,
		Posting:      posting,
		StockLog:     stockLog,
		Customers:    customers,
		JWTSecret:    testJWTSecret,
		Confidence:   0.75,
		ChatTimeout:  5 * time.Second,
	})
	return app
}

func seedOneThan(t *testing.T, thans *memory.ThanRepo) {
	t.Helper()
	require.NoError(t, thans.Create(&entity.Than{
		PackageNo: "5801", ThanNo: 1, Design: "D-101", Shade: "maroon",
		Yards: decimal.NewFromInt(10), Status: entity.ThanStatusAvailable,
		Warehouse: "Lagos", PricePerYard: decimal.NewFromInt(100), UpdatedAt: time.Now(),
	}))
}

func postMessage(t *testing.T, app *fiber.App, role, text string) *http.Response {
	t.Helper()
	body, err := json.Marshal(dto.InboundMessage{Text: text})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeReply(t *testing.T, resp *http.Response) dto.ChatReply {
	t.Helper()
	defer resp.Body.Close()
	var reply dto.ChatReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	return reply
}

func TestChatMessage_ConfidentIntentExecutes(t *testing.T) {
	classifier := &stubClassifier{result: &dto.IntentResult{
		Action: action.Action{
			Kind: action.KindSellThan,
			Sell: &action.SellPayload{PackageNo: "5801", ThanNo: 1, Customer: "Bala"},
		},
		Confidence: 0.93,
	}}
	thans := memory.NewThanRepository()
	app := buildChatApp(t, classifier, thans)
	seedOneThan(t, thans)

	resp := postMessage(t, app, "admin", "sell than 1 of 5801 to Bala")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	reply := decodeReply(t, resp)
	assert.Equal(t, "completed", reply.Status)
	assert.Contains(t, reply.Text, "sold than 1")

	row, err := thans.Get("5801", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ThanStatusSold, row.Status)
}

func TestChatMessage_OperatorGetsPendingReceipt(t *testing.T) {
	classifier := &stubClassifier{result: &dto.IntentResult{
		Action: action.Action{
			Kind: action.KindSellThan,
			Sell: &action.SellPayload{PackageNo: "5801", ThanNo: 1, Customer: "Bala"},
		},
		Confidence: 0.9,
	}}
	thans := memory.NewThanRepository()
	app := buildChatApp(t, classifier, thans)
	seedOneThan(t, thans)

	reply := decodeReply(t, postMessage(t, app, "operator", "sell than 1 of 5801 to Bala"))
	assert.Equal(t, "pending", reply.Status)
	assert.NotEmpty(t, reply.RequestID)

	row, err := thans.Get("5801", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ThanStatusAvailable, row.Status, "deferred actions touch nothing")
}

func TestChatMessage_LowConfidenceSurfacesClarification(t *testing.T) {
	classifier := &stubClassifier{result: &dto.IntentResult{
		Action:        action.Action{Kind: action.KindSellThan},
		Confidence:    0.4,
		Clarification: "Which package did you mean?",
	}}
	app := buildChatApp(t, classifier, memory.NewThanRepository())

	reply := decodeReply(t, postMessage(t, app, "admin", "sell the usual"))
	assert.Equal(t, "clarification", reply.Status)
	assert.Equal(t, "Which package did you mean?", reply.Text)
}

func TestChatMessage_ClassifierFailureIsPoliteError(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("model down")}
	app := buildChatApp(t, classifier, memory.NewThanRepository())

	resp := postMessage(t, app, "admin", "sell than 1 of 5801 to Bala")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	reply := decodeReply(t, resp)
	assert.Equal(t, "error", reply.Status)
	assert.NotContains(t, reply.Text, "model down", "internal errors stay internal")
}

// brokenThanRepo simulates a store outage: every write surfaces a raw driver
// error.
type brokenThanRepo struct {
	*memory.ThanRepo
}

func (r *brokenThanRepo) Update(than *entity.Than) error {
	return errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")
}

func TestChatMessage_StoreOutageGetsRetryMessage(t *testing.T) {
	classifier := &stubClassifier{result: &dto.IntentResult{
		Action: action.Action{
			Kind: action.KindSellThan,
			Sell: &action.SellPayload{PackageNo: "5801", ThanNo: 1, Customer: "Bala"},
		},
		Confidence: 0.95,
	}}
	thans := memory.NewThanRepository()
	app := buildChatApp(t, classifier, &brokenThanRepo{ThanRepo: thans})
	seedOneThan(t, thans)

	resp := postMessage(t, app, "admin", "sell than 1 of 5801 to Bala")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	reply := decodeReply(t, resp)
	assert.Equal(t, "error", reply.Status)
	assert.Contains(t, reply.Text, "try again")
	assert.NotContains(t, reply.Text, "dial tcp", "driver errors never reach the operator")
}

func TestChatMessage_RequiresToken(t *testing.T) {
	app := buildChatApp(t, &stubClassifier{}, memory.NewThanRepository())
	body, _ := json.Marshal(dto.InboundMessage{Text: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
