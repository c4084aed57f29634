package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

// false positive rate of the code prefilter
const filterFalsePositiveRate = 0.001

// Table is the read-only set of known coupons, keyed by normalized code
type Table struct {
	// loadMu serializes loads so each merge starts from the previous result
	loadMu  sync.Mutex
	mu      sync.RWMutex
	coupons map[string]models.Coupon
	filter  *bloom.BloomFilter
	sources []string
}

// sourceLoadResult holds the result of loading a single coupon source
type sourceLoadResult struct {
	index   int
	coupons []models.Coupon
	err     error
}

// DefaultCoupons is the built-in promotion list
func DefaultCoupons() []models.Coupon {
	return []models.Coupon{
		{Code: "SAVE10", Kind: models.CouponPercentage, Magnitude: 10, Description: "10% off your order"},
		{Code: "WELCOME20", Kind: models.CouponPercentage, Magnitude: 20, Description: "20% off for new customers"},
		{Code: "FLAT5", Kind: models.CouponFixed, Magnitude: 5, Description: "$5 off your order"},
		{Code: "FREESHIP", Kind: models.CouponFreeShipping, Description: "Free delivery"},
	}
}

// NewTable builds a table from the given coupons. Invalid entries are skipped.
func NewTable(coupons ...models.Coupon) *Table {
	t := &Table{}
	t.replace(coupons, nil)
	return t
}

// Lookup resolves a user-entered code. Unknown codes return nil.
func (t *Table) Lookup(code string) *models.Coupon {
	code = models.NormalizeCode(code)
	if code == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.filter.TestString(code) {
		return nil
	}
	c, ok := t.coupons[code]
	if !ok {
		return nil
	}
	return &c
}

// LoadFromFiles merges coupon files from disk on top of the current table
func (t *Table) LoadFromFiles(ctx context.Context, paths []string) error {
	return t.loadAll(ctx, paths, loadFromFile)
}

// LoadFromURLs merges coupon files downloaded over HTTP on top of the current table
func (t *Table) LoadFromURLs(ctx context.Context, urls []string) error {
	return t.loadAll(ctx, urls, loadFromURL)
}

// loadAll fetches every source concurrently and merges them in order, so a
// later source overrides an earlier one for the same code. Nothing is merged
// if any source fails.
func (t *Table) loadAll(ctx context.Context, sources []string, load func(context.Context, string) ([]models.Coupon, error)) error {
	if len(sources) == 0 {
		return fmt.Errorf("no coupon sources provided")
	}

	resultChan := make(chan sourceLoadResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			coupons, err := load(ctx, source)
			resultChan <- sourceLoadResult{
				index:   index,
				coupons: coupons,
				err:     err,
			}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]sourceLoadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load coupon source %d (%s): %w", i+1, sources[i], result.err)
		}
	}

	t.loadMu.Lock()
	defer t.loadMu.Unlock()

	t.mu.RLock()
	merged := make([]models.Coupon, 0, len(t.coupons))
	for _, c := range t.coupons {
		merged = append(merged, c)
	}
	t.mu.RUnlock()

	for _, result := range results {
		merged = append(merged, result.coupons...)
	}

	t.replace(merged, sources)
	return nil
}

func (t *Table) replace(coupons []models.Coupon, sources []string) {
	byCode := make(map[string]models.Coupon, len(coupons))
	for _, c := range coupons {
		c.Code = models.NormalizeCode(c.Code)
		if validate(c) != nil {
			continue
		}
		byCode[c.Code] = c
	}

	n := uint(len(byCode))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, filterFalsePositiveRate)
	for code := range byCode {
		filter.AddString(code)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.coupons = byCode
	t.filter = filter
	t.sources = append(t.sources, sources...)
}

// Stats returns statistics about the loaded table
func (t *Table) Stats() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byKind := map[string]int{}
	for _, c := range t.coupons {
		byKind[string(c.Kind)]++
	}

	sources := make([]string, len(t.sources))
	copy(sources, t.sources)

	return map[string]interface{}{
		"total_coupons": len(t.coupons),
		"by_kind":       byKind,
		"sources":       sources,
	}
}

func validate(c models.Coupon) error {
	if c.Code == "" {
		return errors.New("empty code")
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	if math.IsNaN(c.Magnitude) || math.IsInf(c.Magnitude, 0) {
		return fmt.Errorf("magnitude %v is not a number", c.Magnitude)
	}
	if c.Magnitude < 0 {
		return fmt.Errorf("negative magnitude %v", c.Magnitude)
	}
	if c.Kind == models.CouponPercentage && c.Magnitude > 100 {
		return fmt.Errorf("percentage %v above 100", c.Magnitude)
	}
	return nil
}

func loadFromFile(_ context.Context, path string) ([]models.Coupon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return parseCoupons(f)
}

// loadFromURL downloads and parses a coupon file from a URL
func loadFromURL(ctx context.Context, url string) ([]models.Coupon, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseCoupons(resp.Body)
}

// parseCoupons reads `CODE,kind,magnitude[,description]` rows, transparently
// gunzipping the input when it starts with the gzip magic bytes.
func parseCoupons(r io.Reader) ([]models.Coupon, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return parseRows(gz)
	}
	return parseRows(br)
}

func parseRows(r io.Reader) ([]models.Coupon, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var coupons []models.Coupon
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected code,kind,magnitude", line)
		}

		magnitude, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad magnitude %q", line, record[2])
		}

		c := models.Coupon{
			Code:      models.NormalizeCode(record[0]),
			Kind:      models.CouponKind(strings.ToLower(strings.TrimSpace(record[1]))),
			Magnitude: magnitude,
		}
		if len(record) > 3 {
			c.Description = strings.TrimSpace(record[3])
		}
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		coupons = append(coupons, c)
	}

	return coupons, nil
}
