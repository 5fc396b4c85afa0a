package qtsdk

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Interval is a candle granularity.
type Interval string

const (
	OneMinute      Interval = "OneMinute"
	TwoMinutes     Interval = "TwoMinutes"
	ThreeMinutes   Interval = "ThreeMinutes"
	FourMinutes    Interval = "FourMinutes"
	FiveMinutes    Interval = "FiveMinutes"
	TenMinutes     Interval = "TenMinutes"
	FifteenMinutes Interval = "FifteenMinutes"
	TwentyMinutes  Interval = "TwentyMinutes"
	HalfHour       Interval = "HalfHour"
	OneHour        Interval = "OneHour"
	TwoHours       Interval = "TwoHours"
	FourHours      Interval = "FourHours"
	OneDay         Interval = "OneDay"
	OneWeek        Interval = "OneWeek"
	OneMonth       Interval = "OneMonth"
	OneYear        Interval = "OneYear"
)

var intervals = []Interval{
	OneMinute, TwoMinutes, ThreeMinutes, FourMinutes, FiveMinutes, TenMinutes,
	FifteenMinutes, TwentyMinutes, HalfHour, OneHour, TwoHours, FourHours,
	OneDay, OneWeek, OneMonth, OneYear,
}

// SymbolQuery selects symbols either by internal id or by ticker name.
// Exactly one of the two must be set.
type SymbolQuery struct {
	IDs   []int64
	Names []string
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ============================================================================
// Symbols
// ============================================================================

func symbolsCall(sq SymbolQuery) (call, error) {
	hasIDs, hasNames := len(sq.IDs) > 0, len(sq.Names) > 0
	if hasIDs == hasNames {
		return call{}, configErrorf("symbols", "exactly one of ids or names must be specified")
	}

	q := url.Values{}
	if hasIDs {
		q.Set("ids", joinIDs(sq.IDs))
	} else {
		q.Set("names", strings.Join(sq.Names, ","))
	}
	return call{path: "/v1/symbols", query: q, key: "symbols", kind: KindSymbolData}, nil
}

// Symbols returns detailed information about one or more symbols.
func (s *Session) Symbols(ctx context.Context, sq SymbolQuery) ([]SymbolData, error) {
	c, err := symbolsCall(sq)
	if err != nil {
		return nil, err
	}
	return fetch[SymbolData](ctx, s, c)
}

// SymbolsRaw is Symbols without validation.
func (s *Session) SymbolsRaw(ctx context.Context, sq SymbolQuery) (RawJSON, error) {
	c, err := symbolsCall(sq)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

func searchCall(prefix string) (call, error) {
	if prefix == "" {
		return call{}, configErrorf("prefix", "required")
	}
	q := url.Values{"prefix": {prefix}}
	return call{path: "/v1/symbols/search", query: q, key: "symbols", kind: KindSearchResult}, nil
}

// SearchSymbols finds symbols whose ticker or description starts with prefix.
func (s *Session) SearchSymbols(ctx context.Context, prefix string) ([]SearchResult, error) {
	c, err := searchCall(prefix)
	if err != nil {
		return nil, err
	}
	return fetch[SearchResult](ctx, s, c)
}

// SearchSymbolsRaw is SearchSymbols without validation.
func (s *Session) SearchSymbolsRaw(ctx context.Context, prefix string) (RawJSON, error) {
	c, err := searchCall(prefix)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Quotes
// ============================================================================

func quotesCall(ids []int64) (call, error) {
	if len(ids) == 0 {
		return call{}, configErrorf("ids", "at least one symbol id is required")
	}
	q := url.Values{"ids": {joinIDs(ids)}}
	return call{path: "/v1/markets/quotes", query: q, key: "quotes", kind: KindQuote}, nil
}

// Quotes returns the latest Level 1 quotes for the given symbol ids.
func (s *Session) Quotes(ctx context.Context, ids []int64) ([]Quote, error) {
	c, err := quotesCall(ids)
	if err != nil {
		return nil, err
	}
	return fetch[Quote](ctx, s, c)
}

// QuotesRaw is Quotes without validation.
func (s *Session) QuotesRaw(ctx context.Context, ids []int64) (RawJSON, error) {
	c, err := quotesCall(ids)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Candles
// ============================================================================

func candlesCall(symbolID int64, rng DateRange, interval Interval) (call, error) {
	if rng.IsZero() {
		return call{}, configErrorf("range", "candles require a date range")
	}
	if interval == "" {
		interval = OneDay
	}
	if !slices.Contains(intervals, interval) {
		return call{}, configErrorf("interval", "unknown interval %q", interval)
	}

	q := url.Values{}
	rng.apply(q)
	q.Set("interval", string(interval))
	return call{
		path:  "/v1/markets/candles/" + strconv.FormatInt(symbolID, 10),
		query: q,
		key:   "candles",
		kind:  KindCandle,
	}, nil
}

// Candles returns historical OHLC bars for a symbol. An empty interval means
// OneDay.
func (s *Session) Candles(ctx context.Context, symbolID int64, rng DateRange, interval Interval) ([]Candle, error) {
	c, err := candlesCall(symbolID, rng, interval)
	if err != nil {
		return nil, err
	}
	return fetch[Candle](ctx, s, c)
}

// CandlesRaw is Candles without validation.
func (s *Session) CandlesRaw(ctx context.Context, symbolID int64, rng DateRange, interval Interval) (RawJSON, error) {
	c, err := candlesCall(symbolID, rng, interval)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Server time
// ============================================================================

// ServerTime returns the server's current time as {"time": "..."}. It has
// no typed form.
func (s *Session) ServerTime(ctx context.Context) (RawJSON, error) {
	return s.fetchRaw(ctx, call{path: "/v1/time"})
}
