package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"raffle-tool-backend/internal/common/middleware"
	"raffle-tool-backend/internal/features/raffle/models"
	raffleservice "raffle-tool-backend/internal/features/raffle/service"
	"raffle-tool-backend/internal/oracle"
	"raffle-tool-backend/internal/platform/ton"
)

type stubOracle struct {
	requests int
}

func (s *stubOracle) RequestRandomWords(_ context.Context, _ oracle.RandomWordsRequest) (string, error) {
	s.requests++
	return fmt.Sprintf("req-%d", s.requests), nil
}

func passthroughAuth(c *gin.Context) {
	c.Next()
}

func newTestRouter(t *testing.T, interval time.Duration) (*gin.Engine, raffleservice.RaffleService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fee, err := tlb.FromTON("0.01")
	require.NoError(t, err)

	svc := raffleservice.New(
		models.RaffleConfig{
			EntranceFee:    fee,
			Interval:       interval,
			SubscriptionID: 1,
			Confirmations:  3,
		},
		&stubOracle{},
		ton.NewDryRunBank(),
		nil,
		nil,
	)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.HandleErrors())

	handler := NewRaffleHandler(svc, nil, ton.NewDryRunBank())
	handler.RegisterRoutes(router.Group("/api/v1"), passthroughAuth)

	return router, svc
}

func testAddress(seed byte) string {
	data := make([]byte, 32)
	for i := range data {
		data[i] = seed
	}
	return address.NewAddress(0, 0, data).String()
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetRoundInitialState(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodGet, "/api/v1/raffle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "open", resp["state"])
	require.Equal(t, float64(0), resp["players_count"])
	require.Equal(t, "0", resp["pot_ton"])
	require.Equal(t, "0.01", resp["entrance_fee_ton"])
	require.Equal(t, float64(300), resp["interval_sec"])
	require.NotContains(t, resp, "recent_winner")
}

func TestEnterRecordsEntry(t *testing.T) {
	router, svc := newTestRouter(t, 5*time.Minute)
	addr := testAddress(1)

	rec := doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": addr,
		"amount":  "0.01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, addr, resp["player"])
	require.Equal(t, float64(1), resp["players_count"])
	require.Equal(t, "0.01", resp["pot_ton"])
	require.Equal(t, 1, svc.PlayerCount())
}

func TestEnterInsufficientPayment(t *testing.T) {
	router, svc := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": testAddress(1),
		"amount":  "0.005",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INSUFFICIENT_PAYMENT")
	require.Equal(t, 0, svc.PlayerCount())
}

func TestEnterInvalidInput(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": "not-an-address",
		"amount":  "0.01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": testAddress(1),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlayer(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)
	addr := testAddress(2)

	doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": addr,
		"amount":  "0.01",
	})

	rec := doJSON(router, http.MethodGet, "/api/v1/raffle/players/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, addr, resp["player"])

	rec = doJSON(router, http.MethodGet, "/api/v1/raffle/players/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "INDEX_OUT_OF_RANGE")

	rec = doJSON(router, http.MethodGet, "/api/v1/raffle/players/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckUpkeep(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodGet, "/api/v1/raffle/upkeep", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"upkeep_needed": false}`, rec.Body.String())
}

func TestPerformUpkeepRejectedWhenNotNeeded(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodPost, "/api/v1/raffle/upkeep", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "UPKEEP_NOT_NEEDED")
}

func TestPerformUpkeepStartsDraw(t *testing.T) {
	// zero interval means the upkeep window is always open
	router, svc := newTestRouter(t, 0)

	doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": testAddress(3),
		"amount":  "0.01",
	})

	rec := doJSON(router, http.MethodGet, "/api/v1/raffle/upkeep", nil)
	require.JSONEq(t, `{"upkeep_needed": true}`, rec.Body.String())

	rec = doJSON(router, http.MethodPost, "/api/v1/raffle/upkeep", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "req-1", resp["request_id"])
	require.Equal(t, "drawing", resp["state"])
	require.Equal(t, models.StateDrawing, svc.State())

	// entries are closed while the draw is in flight
	rec = doJSON(router, http.MethodPost, "/api/v1/raffle/entries", gin.H{
		"address": testAddress(4),
		"amount":  "0.01",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "ROUND_NOT_OPEN")
}

func TestGetBankDryRun(t *testing.T) {
	router, _ := newTestRouter(t, 5*time.Minute)

	rec := doJSON(router, http.MethodGet, "/api/v1/raffle/bank", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "", resp["address"])
	require.NotContains(t, resp, "balance_nano")
}
