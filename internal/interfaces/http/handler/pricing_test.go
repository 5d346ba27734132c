package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apppricing "github.com/retailcore/engine/internal/application/pricing"
	"github.com/retailcore/engine/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupPricingRouter() *gin.Engine {
	service := apppricing.NewService(pricing.NewEngine(pricing.NewPriceResolver()), zap.NewNop())
	handler := NewPricingHandler(service)

	engine := gin.New()
	api := engine.Group("/api/v1")
	handler.RegisterRoutes(api)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	return resp.Data
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error.Code
}

// riceProduct is a weight-tracked product with one batch, using the loose
// field types upstream clients actually send.
func riceProduct() map[string]any {
	return map[string]any{
		"name":            "Basmati Rice",
		"unit":            "kg",
		"selling_price":   "22.5",
		"wholesale_price": 18,
		"wholesale_moq":   10,
		"track_expiry":    "true",
		"batches": []map[string]any{
			{
				"id":            "LOT-1",
				"quantity":      10,
				"selling_price": 20,
				"cost_price":    "12",
				"created_at":    "2026-08-01",
			},
		},
	}
}

func TestQuoteEndpoint(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/quote", map[string]any{
		"product": riceProduct(),
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	// The in-stock batch's own price wins over the product fallback.
	assert.Equal(t, 20.0, data["retail_price"])
	assert.Equal(t, 18.0, data["wholesale_price"])
	assert.Equal(t, "INR", data["currency"])
	assert.Equal(t, 10.0, data["wholesale_moq"])
	assert.Equal(t, 10.0, data["total_stock"])
	assert.Equal(t, "kg", data["stock_unit"])
	assert.Equal(t, true, data["decimal_allowed"])
}

func TestQuoteEndpointRejectsMalformedJSON(t *testing.T) {
	engine := setupPricingRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocateEndpoint(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/allocate", map[string]any{
		"product":   riceProduct(),
		"quantity":  7,
		"unit":      "kg",
		"sale_mode": "retail",
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, 140.0, data["total_selling_price"])
	assert.Equal(t, 84.0, data["total_cost_price"])
	assert.Equal(t, true, data["fully_allocated"])

	batches, ok := data["used_batches"].([]any)
	require.True(t, ok)
	require.Len(t, batches, 1)
	draw := batches[0].(map[string]any)
	assert.Equal(t, "LOT-1", draw["batch_number"])
	assert.Equal(t, 7.0, draw["quantity"])
}

func TestAllocateEndpointGramConversion(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/allocate", map[string]any{
		"product":  riceProduct(),
		"quantity": 500,
		"unit":     "g",
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, 10.0, data["total_selling_price"])
}

func TestAllocateEndpointRejectsInvalidSaleMode(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/allocate", map[string]any{
		"product":   riceProduct(),
		"quantity":  5,
		"unit":      "kg",
		"sale_mode": "bulk",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocateEndpointUnknownBatch(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/allocate", map[string]any{
		"product":           riceProduct(),
		"quantity":          5,
		"unit":              "kg",
		"selected_batch_id": "LOT-404",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_BATCH_NOT_FOUND", decodeErrorCode(t, w))
}

func TestAllocateAmountEndpoint(t *testing.T) {
	engine := setupPricingRouter()

	w := postJSON(t, engine, "/api/v1/pricing/allocate-amount", map[string]any{
		"product": riceProduct(),
		"amount":  40,
		"unit":    "kg",
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, 2.0, data["quantity"])
	assert.Equal(t, "kg", data["unit"])
}

func TestAvailabilityEndpoint(t *testing.T) {
	engine := setupPricingRouter()

	t.Run("within stock", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/pricing/availability", map[string]any{
			"product":  riceProduct(),
			"quantity": 5,
			"unit":     "kg",
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["available"])
	})

	t.Run("beyond stock", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/pricing/availability", map[string]any{
			"product":  riceProduct(),
			"quantity": 11,
			"unit":     "kg",
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, false, data["available"])
	})

	t.Run("fractional count unit", func(t *testing.T) {
		product := map[string]any{
			"name":     "Notebook",
			"unit":     "pcs",
			"quantity": 20,
		}
		w := postJSON(t, engine, "/api/v1/pricing/availability", map[string]any{
			"product":  product,
			"quantity": 1.5,
			"unit":     "pcs",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_FRACTIONAL_QUANTITY", decodeErrorCode(t, w))
	})
}

func TestUnitInfoEndpoint(t *testing.T) {
	engine := setupPricingRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/units/KG", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "kg", data["unit"])
	assert.Equal(t, "weight", data["category"])
	assert.Equal(t, "g", data["base_unit"])
	assert.Equal(t, true, data["decimal_allowed"])
}
