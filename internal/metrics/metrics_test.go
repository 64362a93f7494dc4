package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"aptdeals/server/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch(models.DealTypeSale, 120*time.Millisecond, 40, nil)
	m.ObserveFetch(models.DealTypeSale, 80*time.Millisecond, 0, errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchRequests.WithLabelValues("SALE", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchRequests.WithLabelValues("SALE", "error")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.fetchedRows.WithLabelValues("SALE")))
}

func TestObserveResolutionAndSearch(t *testing.T) {
	m := New()

	m.ObserveResolution(true, nil)
	m.ObserveResolution(false, nil)
	m.ObserveResolution(false, errors.New("boom"))
	m.ObserveSearch(nil)
	m.ObserveSearch(fmt.Errorf("%w: bad month", models.ErrInvalidQuery))
	m.ObserveSearch(fmt.Errorf("%w: down", models.ErrDataSourceUnavailable))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("unavailable")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch(models.DealTypeJeonseWolse, time.Second, 1, nil)
		m.ObserveResolution(true, nil)
		m.ObserveSearch(nil)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveResolution(true, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "aptdeals_region_resolutions_total")
}
