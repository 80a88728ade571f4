package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Financial data proxy handlers

// GetPlaidEndpoints lists the supported Plaid endpoint names
func (s *Server) GetPlaidEndpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":             "Plaid API endpoint. Use POST to make requests.",
		"available_endpoints": s.plaid.Endpoints(),
	})
}

// ProxyPlaid forwards one request to Plaid with stored credentials injected
func (s *Server) ProxyPlaid(c *gin.Context) {
	var req struct {
		Endpoint string                 `json:"endpoint" binding:"required"`
		Data     map[string]interface{} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	body, status, err := s.plaid.Call(c.Request.Context(), req.Endpoint, req.Data)
	if err != nil {
		if status != 0 {
			// Pass the upstream rejection through with its status code.
			c.JSON(status, gin.H{"error": rawOrString(body)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// GetQuote looks up one symbol on Finnhub
func (s *Server) GetQuote(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", "AAPL")
	endpoint := c.DefaultQuery("endpoint", "quote")

	body, status, err := s.finnhub.Lookup(c.Request.Context(), endpoint, symbol)
	if err != nil {
		if status != 0 {
			c.JSON(status, gin.H{"error": rawOrString(body)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    symbol,
		"endpoint":  endpoint,
		"data":      rawOrString(body),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetQuotes fans out one quote lookup per requested symbol
func (s *Server) GetQuotes(c *gin.Context) {
	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Symbols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbols array is required"})
		return
	}

	quotes, err := s.finnhub.Quotes(c.Request.Context(), req.Symbols)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// rawOrString keeps valid upstream JSON intact and falls back to a plain
// string for anything else.
func rawOrString(body []byte) interface{} {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
