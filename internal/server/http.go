package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/optimizer"
)

// SearchRequest is the JSON body of POST /api/v1/search.
type SearchRequest struct {
	Symbols   []string `json:"symbols" binding:"required"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	Benchmark string   `json:"benchmark"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewRouter wires the webhook (nil skips it), health check and search API.
func NewRouter(webhook http.HandlerFunc, svc *optimizer.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	if webhook != nil {
		router.POST("/telegram/webhook", gin.WrapF(webhook))
	}
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := &searchHandler{svc: svc}
	api := router.Group("/api/v1")
	{
		api.POST("/search", h.Search)
		api.GET("/searches", h.Recent)
	}
	return router
}

// ListenAndServe serves handler with permissive CORS for the API.
func ListenAndServe(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Str("component", "http").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

type searchHandler struct {
	svc *optimizer.Service
}

// Search handles POST /api/v1/search
func (h *searchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	start, err := finance.ParseDay(req.StartDate)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_DATE", "start_date must be in YYYY-MM-DD format")
		return
	}
	end, err := finance.ParseDay(req.EndDate)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_DATE", "end_date must be in YYYY-MM-DD format")
		return
	}
	symbols, err := finance.NormalizeSymbols(req.Symbols)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	report, err := h.svc.Run(c.Request.Context(), finance.SearchRequest{Start: start, End: end, Symbols: symbols}, req.Benchmark, nil)
	if err != nil {
		status, code := classify(err)
		abortWith(c, status, code, err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Recent handles GET /api/v1/searches?limit=N
func (h *searchHandler) Recent(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := h.svc.Recent(limit)
	if err != nil {
		abortWith(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": recs})
}

// classify maps search failures onto HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, finance.ErrNoLegalAllocation):
		return http.StatusUnprocessableEntity, "NO_LEGAL_ALLOCATION"
	case errors.Is(err, finance.ErrDegenerateSeries):
		return http.StatusUnprocessableEntity, "DEGENERATE_SERIES"
	case errors.Is(err, finance.ErrDataGap):
		return http.StatusUnprocessableEntity, "DATA_GAP"
	case errors.Is(err, finance.ErrBasketTooLarge):
		return http.StatusBadRequest, "BASKET_TOO_LARGE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
