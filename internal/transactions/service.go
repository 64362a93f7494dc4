package transactions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"aptdeals/server/internal/fetcher"
	"aptdeals/server/internal/filter"
	"aptdeals/server/internal/keyword"
	"aptdeals/server/internal/metrics"
	"aptdeals/server/internal/models"
	"aptdeals/server/internal/normalize"
	"aptdeals/server/internal/region"

	"github.com/sirupsen/logrus"
)

// Resolver turns a region query into a district code
type Resolver interface {
	Resolve(ctx context.Context, query string) (region.Resolution, error)
}

// Result is one search. It replaces any previous result wholesale.
type Result struct {
	Query    models.QueryParameters     `json:"query"`
	District region.Resolution          `json:"district"`
	Records  []models.TransactionRecord `json:"records"`
	Excluded int                        `json:"excluded"`
	Columns  []string                   `json:"columns"`
	Summary  models.Summary             `json:"summary"`
}

type Service struct {
	resolver Resolver
	fetcher  fetcher.Fetcher
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewService(resolver Resolver, f fetcher.Fetcher, m *metrics.Metrics, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Service{
		resolver: resolver,
		fetcher:  f,
		metrics:  m,
		logger:   logger,
	}
}

// Search runs the whole pipeline for one query. A region that matches nothing is not
// an error: the result comes back with District.Found == false and no records.
func (s *Service) Search(ctx context.Context, q models.QueryParameters) (*Result, error) {
	result, err := s.search(ctx, q)
	s.metrics.ObserveSearch(err)
	return result, err
}

func (s *Service) search(ctx context.Context, q models.QueryParameters) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	months, err := q.Months()
	if err != nil {
		return nil, err
	}

	district, err := s.resolver.Resolve(ctx, q.RegionInput)
	s.metrics.ObserveResolution(district.Found, err)
	if err != nil {
		return nil, asUnavailable(err)
	}

	result := &Result{
		Query:    q,
		District: district,
		Records:  []models.TransactionRecord{},
		Columns:  []string{},
		Summary:  Summarize(nil),
	}
	if !district.Found {
		s.logger.WithField("region", q.RegionInput).Info("Region not found")
		return result, nil
	}

	raw, err := s.fetcher.Fetch(ctx, fetcher.FetchRequest{
		ServiceKey:   q.ServiceKey,
		DistrictCode: district.Code,
		DealType:     q.DealType,
		Months:       months,
	})
	if err != nil {
		return nil, asUnavailable(err)
	}

	table := normalize.Normalize(raw)
	records, excluded := BuildRecords(table, q.DealType)

	if kq := keyword.Parse(q.Keyword); !kq.Empty() {
		kept := records[:0]
		for _, r := range records {
			if kq.Match(r.ComplexName) {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	records = filter.Apply(records, q.Filters)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DealDate().Before(records[j].DealDate())
	})

	result.Records = records
	result.Excluded = excluded
	if cols := normalize.Columns(table); cols != nil {
		result.Columns = cols
	}
	result.Summary = Summarize(records)

	s.logger.WithFields(logrus.Fields{
		"district":  district.Code,
		"deal_type": q.DealType,
		"raw":       len(raw),
		"records":   len(records),
		"excluded":  excluded,
	}).Info("Search completed")

	return result, nil
}

func asUnavailable(err error) error {
	if errors.Is(err, models.ErrDataSourceUnavailable) || errors.Is(err, models.ErrInvalidQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrDataSourceUnavailable, err)
}

// UserMessage renders any search error as the one line shown to the user. Timeouts
// and cancellation are reported as such even when wrapped as unavailability.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrInvalidQuery):
		return err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The transaction data source did not answer in time. Try a shorter period."
	case errors.Is(err, context.Canceled):
		return "The search was cancelled before it finished."
	case errors.Is(err, models.ErrDataSourceUnavailable):
		return "The transaction data source is unavailable. Check the service key and try again."
	}
	return "Unexpected error while searching transactions."
}
