package region

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"aptdeals/server/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Source loads the district reference table
type Source interface {
	Load(ctx context.Context) ([]models.DistrictRecord, error)
}

// Resolution is the outcome of a lookup. Found is false when nothing matched.
type Resolution struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

type entry struct {
	record models.DistrictRecord
	key    string
}

// Index resolves free-text region names to 5-digit district codes. The reference
// table is loaded on first use and kept for the life of the process.
type Index struct {
	source Source
	logger *logrus.Logger

	mu        sync.Mutex
	loaded    bool
	entries   []entry
	districts map[string]string // lawd code -> district-level name
}

func NewIndex(source Source, logger *logrus.Logger) *Index {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Index{
		source: source,
		logger: logger,
	}
}

// Resolve picks one active district for the query. When several match, the winner is
// chosen by level (si/gun/gu before dong before si/do), then shortest name, then
// lowest code, so the result never depends on the order of the reference table.
func (idx *Index) Resolve(ctx context.Context, query string) (Resolution, error) {
	if err := idx.ensureLoaded(ctx); err != nil {
		return Resolution{}, err
	}

	key := normalizeName(query)
	if key == "" {
		return Resolution{}, nil
	}

	var matches []models.DistrictRecord
	for _, e := range idx.entries {
		if matchesEntry(e, key) {
			matches = append(matches, e.record)
		}
	}
	if len(matches) == 0 {
		idx.logger.WithField("query", query).Debug("No district matched")
		return Resolution{}, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return less(matches[i], matches[j])
	})
	winner := matches[0]

	code := winner.LawdCode()
	name := winner.Name
	if districtName, ok := idx.districts[code]; ok {
		name = districtName
	}

	idx.logger.WithFields(logrus.Fields{
		"query":   query,
		"code":    code,
		"name":    name,
		"matches": len(matches),
	}).Debug("Resolved district")

	return Resolution{Code: code, Name: name, Found: true}, nil
}

// Records returns the active records, loading them if needed.
func (idx *Index) Records(ctx context.Context) ([]models.DistrictRecord, error) {
	if err := idx.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]models.DistrictRecord, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.record
	}
	return out, nil
}

func (idx *Index) ensureLoaded(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.loaded {
		return nil
	}

	records, err := idx.source.Load(ctx)
	if err != nil {
		idx.logger.WithError(err).Error("Failed to load district reference table")
		return fmt.Errorf("%w: failed to load district table: %w", models.ErrDataSourceUnavailable, err)
	}

	entries := make([]entry, 0, len(records))
	districts := make(map[string]string)
	skipped := 0
	for _, r := range records {
		if !r.Active {
			continue
		}
		if !r.Valid() {
			skipped++
			continue
		}
		entries = append(entries, entry{record: r, key: normalizeName(r.Name)})
		if r.IsDistrict() {
			if existing, ok := districts[r.LawdCode()]; !ok || less(r, models.DistrictRecord{Name: existing, Code: r.Code}) {
				districts[r.LawdCode()] = r.Name
			}
		}
	}
	if skipped > 0 {
		idx.logger.WithField("skipped", skipped).Warn("Skipped invalid active district records")
	}
	if len(entries) == 0 {
		idx.logger.WithField("records", len(records)).Error("District reference table has no active records")
		return fmt.Errorf("%w: district table has no active records", models.ErrDataSourceUnavailable)
	}

	idx.entries = entries
	idx.districts = districts
	idx.loaded = true
	idx.logger.WithField("districts", len(entries)).Info("Loaded district reference table")
	return nil
}

func matchesEntry(e entry, key string) bool {
	if isLawdCode(key) {
		return strings.HasPrefix(e.record.Code, key)
	}
	return strings.Contains(e.key, key)
}

func isLawdCode(s string) bool {
	if len(s) != models.LawdCodeLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func level(r models.DistrictRecord) int {
	switch {
	case r.IsDistrict():
		return 0
	case r.IsProvince():
		return 2
	default:
		return 1
	}
}

func less(a, b models.DistrictRecord) bool {
	if la, lb := level(a), level(b); la != lb {
		return la < lb
	}
	if na, nb := utf8.RuneCountInString(a.Name), utf8.RuneCountInString(b.Name); na != nb {
		return na < nb
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.Name < b.Name
}

// normalizeName composes Hangul (NFD input from some platforms), drops whitespace
// and case-folds.
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return cases.Fold().String(s)
}
