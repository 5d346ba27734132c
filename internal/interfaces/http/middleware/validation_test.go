package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/engine/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type saleRequest struct {
		Unit     string  `json:"unit" binding:"required"`
		SaleMode string  `json:"sale_mode" binding:"omitempty,oneof=retail wholesale"`
		Quantity float64 `json:"quantity" binding:"gte=0"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/sale", func(c *gin.Context) {
		var req saleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("reports each failed field by json name", func(t *testing.T) {
		body := strings.NewReader(`{"sale_mode": "bulk", "quantity": -2}`)
		req := httptest.NewRequest("POST", "/sale", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Contains(t, fields, "unit")
		assert.Contains(t, fields, "sale_mode")
		assert.Contains(t, fields, "quantity")
		assert.Equal(t, "Must be one of: retail wholesale", fields["sale_mode"])
	})

	t.Run("valid payload passes through", func(t *testing.T) {
		body := strings.NewReader(`{"unit": "kg", "sale_mode": "retail", "quantity": 3}`)
		req := httptest.NewRequest("POST", "/sale", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFieldMessage(t *testing.T) {
	tests := []struct {
		tag      string
		param    string
		expected string
	}{
		{"required", "", "This field is required"},
		{"oneof", "retail wholesale", "Must be one of: retail wholesale"},
		{"gte", "0", "Must be at least 0"},
		{"numeric", "", "Must be numeric"},
		{"hostname", "", "Invalid value"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, fieldMessage(stubFieldError{tag: tt.tag, param: tt.param}))
		})
	}
}

// stubFieldError implements just enough of validator.FieldError for message
// lookup.
type stubFieldError struct {
	validator.FieldError
	tag   string
	param string
}

func (s stubFieldError) Tag() string   { return s.tag }
func (s stubFieldError) Param() string { return s.param }
