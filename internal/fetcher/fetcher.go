package fetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"aptdeals/server/internal/metrics"
	"aptdeals/server/internal/models"
	"aptdeals/server/internal/normalize"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://apis.data.go.kr/1613000"

	tradePath = "/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade"
	rentPath  = "/RTMSDataSvcAptRent/getRTMSDataSvcAptRent"

	// guards against a totalCount that never converges
	maxPages = 100
)

// FetchRequest selects one district, one deal type and a list of YYYYMM months.
type FetchRequest struct {
	ServiceKey   string
	DistrictCode string
	DealType     models.DealType
	Months       []string
}

// Fetcher retrieves raw transaction rows. Implementations wrap every failure with
// models.ErrDataSourceUnavailable.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (normalize.Table, error)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	PageSize  int
	UserAgent string
}

// RTMSClient calls the MOLIT apartment trade and rent endpoints. Calls are made one
// page at a time and are never retried.
type RTMSClient struct {
	client   *resty.Client
	pageSize int
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

func NewRTMSClient(opts Options, logger *logrus.Logger, m *metrics.Metrics) *RTMSClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 1000
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "aptdeals/1.0"
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/xml").
		SetHeader("User-Agent", opts.UserAgent)

	return &RTMSClient{
		client:   client,
		pageSize: opts.PageSize,
		logger:   logger,
		metrics:  m,
	}
}

func (c *RTMSClient) Fetch(ctx context.Context, req FetchRequest) (normalize.Table, error) {
	path, err := endpoint(req.DealType)
	if err != nil {
		return nil, err
	}

	var rows normalize.Table
	for _, month := range req.Months {
		monthRows, err := c.fetchMonth(ctx, path, req, month)
		if err != nil {
			return nil, err
		}
		rows = append(rows, monthRows...)
	}

	c.logger.WithFields(logrus.Fields{
		"district":  req.DistrictCode,
		"deal_type": req.DealType,
		"months":    len(req.Months),
		"rows":      len(rows),
	}).Info("Fetched transactions")

	return rows, nil
}

func (c *RTMSClient) fetchMonth(ctx context.Context, path string, req FetchRequest, month string) (normalize.Table, error) {
	var rows normalize.Table
	for page := 1; page <= maxPages; page++ {
		started := time.Now()
		resp, err := c.fetchPage(ctx, path, req, month, page)
		var count int
		if resp != nil {
			count = len(resp.Body.Items.Item)
		}
		c.metrics.ObserveFetch(req.DealType, time.Since(started), count, err)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"district": req.DistrictCode,
				"month":    month,
				"page":     page,
			}).Error("RTMS request failed")
			return nil, fmt.Errorf("%w: %w", models.ErrDataSourceUnavailable, err)
		}

		for _, item := range resp.Body.Items.Item {
			rows = append(rows, item.row())
		}

		if count == 0 || len(rows) >= resp.Body.TotalCount {
			return rows, nil
		}
	}

	c.logger.WithFields(logrus.Fields{
		"district": req.DistrictCode,
		"month":    month,
	}).Warn("Stopped paging at page limit")
	return rows, nil
}

func (c *RTMSClient) fetchPage(ctx context.Context, path string, req FetchRequest, month string, page int) (*rtmsResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": decodeServiceKey(req.ServiceKey),
			"LAWD_CD":    req.DistrictCode,
			"DEAL_YMD":   month,
			"numOfRows":  strconv.Itoa(c.pageSize),
			"pageNo":     strconv.Itoa(page),
		}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", month, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request for %s returned HTTP %d", month, resp.StatusCode())
	}

	var parsed rtmsResponse
	if err := xml.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response for %s: %w", month, err)
	}
	if msg := parsed.gatewayError(); msg != "" {
		return nil, fmt.Errorf("gateway rejected request for %s: %s", month, msg)
	}
	if !parsed.ok() {
		return nil, fmt.Errorf("API error for %s: %s %s", month, parsed.Header.ResultCode, parsed.Header.ResultMsg)
	}
	return &parsed, nil
}

func endpoint(dealType models.DealType) (string, error) {
	switch dealType {
	case models.DealTypeSale:
		return tradePath, nil
	case models.DealTypeJeonseWolse:
		return rentPath, nil
	}
	return "", fmt.Errorf("%w: unknown deal type %q", models.ErrInvalidQuery, dealType)
}

// decodeServiceKey accepts both the "encoded" and "decoded" key the portal issues;
// resty encodes query parameters itself.
func decodeServiceKey(key string) string {
	key = strings.TrimSpace(key)
	if !strings.Contains(key, "%") {
		return key
	}
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
