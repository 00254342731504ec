package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	CounterpartyID string `json:"counterparty_id" binding:"required,uuid"`
	Amount         string `json:"amount" binding:"dpositive"`
	Type           string `json:"type" binding:"required,oneof=payable receivable"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(
		`{"counterparty_id":"nope","amount":"0","type":"loan"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 3)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid UUID format", byField["counterparty_id"])
	assert.Equal(t, "Must be greater than 0", byField["amount"])
	assert.Equal(t, "Must be one of: payable receivable", byField["type"])
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
