// Package ticker keeps the market ticker rows shown on the home page and
// refreshes the crypto rows from a price feed.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/folio/internal/logging"
)

// Row is one ticker entry.
type Row struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Price  string `json:"price" yaml:"price"`
	Change string `json:"change" yaml:"change"`
	Up     bool   `json:"up" yaml:"up"`
}

// feedAssets maps price feed ids to the row symbol they update.
var feedAssets = []struct{ id, symbol string }{
	{"bitcoin", "BTC/USD"},
	{"ethereum", "ETH/USD"},
}

type quote struct {
	USD       *float64 `json:"usd"`
	USDChange *float64 `json:"usd_24h_change"`
}

// Ticker holds the current rows. It is safe for concurrent use.
type Ticker struct {
	mu     sync.RWMutex
	rows   []Row
	url    string
	client *http.Client
	logger logging.Logger
}

func New(seed []Row, url string, logger logging.Logger) *Ticker {
	return &Ticker{
		rows:   slices.Clone(seed),
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With("module", "ticker"),
	}
}

// Rows returns a copy of the current rows.
func (t *Ticker) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

// Loop returns the rows twice in a row, for a seamless scrolling strip.
func (t *Ticker) Loop() []Row {
	rows := t.Rows()
	return append(rows, rows...)
}

// Refresh fetches the feed once and overwrites the crypto rows. On any
// error the rows keep their previous values.
func (t *Ticker) Refresh(ctx context.Context) error {
	quotes, err := t.fetch(ctx)
	if err != nil {
		t.logger.Warn(ctx, "ticker refresh failed", "error", err)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range feedAssets {
		q, ok := quotes[a.id]
		if !ok || q.USD == nil || q.USDChange == nil {
			continue
		}
		i := slices.IndexFunc(t.rows, func(r Row) bool { return r.Symbol == a.symbol })
		if i < 0 {
			continue
		}
		t.rows[i] = Row{
			Symbol: a.symbol,
			Price:  FormatPrice(*q.USD),
			Change: fmt.Sprintf("%.2f%%", *q.USDChange),
			Up:     *q.USDChange > 0,
		}
	}
	return nil
}

// FormatPrice renders a USD price with thousands separators and at most
// three fraction digits, rounded.
func FormatPrice(v float64) string {
	return "$" + humanize.Commaf(math.Round(v*1000)/1000)
}

func (t *Ticker) fetch(ctx context.Context) (map[string]quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed status %s", resp.Status)
	}
	var quotes map[string]quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode price feed: %w", err)
	}
	return quotes, nil
}
