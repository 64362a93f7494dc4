package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"aptdeals/server/config"
	"aptdeals/server/internal/areaband"
	"aptdeals/server/internal/export"
	"aptdeals/server/internal/filter"
	"aptdeals/server/internal/keyword"
	"aptdeals/server/internal/models"
	"aptdeals/server/internal/transactions"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	userCookie       = "aptdeals_uid"
	userCookieMaxAge = 365 * 24 * 60 * 60
	serviceKeyHeader = "X-Service-Key"
	isoDate          = "2006-01-02"
)

// Searcher runs a transaction search
type Searcher interface {
	Search(ctx context.Context, q models.QueryParameters) (*transactions.Result, error)
}

type Handler struct {
	searcher   Searcher
	resolver   transactions.Resolver
	prefs      *config.PreferenceStore
	serviceKey string
	logger     *logrus.Logger
}

type SearchRequest struct {
	Region   string `form:"region"`
	DealType string `form:"deal_type"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Keyword  string `form:"keyword"`
}

type KeywordRequest struct {
	Expression string   `json:"expression"`
	Values     []string `json:"values"`
}

// NewHandler wires the API. prefs may be nil, in which case preferences are neither
// saved nor served. serviceKey is the fallback when a request has no X-Service-Key.
func NewHandler(searcher Searcher, resolver transactions.Resolver, prefs *config.PreferenceStore, serviceKey string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		searcher:   searcher,
		resolver:   resolver,
		prefs:      prefs,
		serviceKey: serviceKey,
		logger:     logger,
	}
}

func (h *Handler) ResolveRegion(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	res, err := h.resolver.Resolve(c.Request.Context(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Failed to resolve region")
		c.JSON(http.StatusBadGateway, gin.H{"error": transactions.UserMessage(err)})
		return
	}
	if !res.Found {
		c.JSON(http.StatusNotFound, res)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) SearchTransactions(c *gin.Context) {
	result, ok := h.search(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ExportTransactions(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	result, ok := h.search(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	var err error
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, result.Records)
	} else {
		err = export.WriteCSV(&buf, result.Records)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to export transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export transactions"})
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s_%s.%s",
		result.District.Code, result.Query.StartMonth, result.Query.EndMonth, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// search parses the request, runs it and writes the error response itself. The
// query is remembered as the caller's preferences once it validates.
func (h *Handler) search(c *gin.Context) (*transactions.Result, bool) {
	q, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	result, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		status := statusFor(err)
		entry := h.logger.WithError(err).WithField("region", q.RegionInput)
		if status >= http.StatusInternalServerError {
			entry.Error("Search failed")
		} else {
			entry.Warn("Search rejected")
		}
		c.JSON(status, gin.H{"error": transactions.UserMessage(err)})
		return nil, false
	}

	h.rememberQuery(c, q)
	return result, true
}

func (h *Handler) parseQuery(c *gin.Context) (models.QueryParameters, error) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return models.QueryParameters{}, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err)
	}

	dealType := models.DealTypeSale
	if req.DealType != "" {
		dt, err := models.ParseDealType(req.DealType)
		if err != nil {
			return models.QueryParameters{}, err
		}
		dealType = dt
	}

	serviceKey := strings.TrimSpace(c.GetHeader(serviceKeyHeader))
	if serviceKey == "" {
		serviceKey = h.serviceKey
	}

	q := models.QueryParameters{
		ServiceKey:  serviceKey,
		RegionInput: strings.TrimSpace(req.Region),
		DealType:    dealType,
		StartMonth:  monthParam(req.Start),
		EndMonth:    monthParam(req.End),
		Keyword:     req.Keyword,
		Filters:     filter.ParseQuery(c.Request.URL.Query()),
	}
	if err := q.Validate(); err != nil {
		return models.QueryParameters{}, err
	}
	return q, nil
}

// monthParam accepts YYYYMM, YYYY-MM or YYYY-MM-DD.
func monthParam(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) > 6 {
		s = s[:6]
	}
	return s
}

func (h *Handler) rememberQuery(c *gin.Context, q models.QueryParameters) {
	if h.prefs == nil {
		return
	}

	start, _ := models.ParseMonth(q.StartMonth)
	end, _ := models.ParseMonth(q.EndMonth)
	prefs := models.UserPreferences{
		TradeType:   q.DealType.String(),
		RegionInput: q.RegionInput,
		StartDate:   start.Format(isoDate),
		EndDate:     end.AddDate(0, 1, -1).Format(isoDate),
		AptKeyword:  q.Keyword,
	}
	if err := h.prefs.Put(h.userKey(c), prefs); err != nil {
		h.logger.WithError(err).Warn("Failed to save preferences")
	}
}

// userKey returns the preference key for the caller, issuing a token cookie when the
// request has none.
func (h *Handler) userKey(c *gin.Context) string {
	token, err := c.Cookie(userCookie)
	if err != nil || token == "" {
		token = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(userCookie, token, userCookieMaxAge, "/", "", false, true)
	}
	return config.HashUser(token)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrDataSourceUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) GetAreaBand(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("area"))
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"labels": areaband.Labels()})
		return
	}

	area, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area must be a number"})
		return
	}
	band, ok := areaband.Estimate(area)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area must be a positive number"})
		return
	}

	c.JSON(http.StatusOK, band)
}

func (h *Handler) EvaluateKeyword(c *gin.Context) {
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   keyword.Parse(req.Expression),
		"matches": keyword.Evaluate(req.Expression, req.Values),
	})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	if h.prefs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preferences are disabled"})
		return
	}

	token, err := c.Cookie(userCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No saved preferences"})
		return
	}
	prefs, ok := h.prefs.Get(config.HashUser(token))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No saved preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	if h.prefs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preferences are disabled"})
		return
	}

	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if prefs.TradeType != "" {
		dt, err := models.ParseDealType(prefs.TradeType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefs.TradeType = dt.String()
	}
	for _, d := range []string{prefs.StartDate, prefs.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(isoDate, d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD"})
			return
		}
	}

	if err := h.prefs.Put(h.userKey(c), prefs); err != nil {
		h.logger.WithError(err).Error("Failed to save preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
