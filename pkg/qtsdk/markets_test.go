package qtsdk

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMarketValidationMakesNoRequest(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	s := liveSession(newClient(t, login, api), api)
	ctx := t.Context()
	rng := NewDateRange(jan1, jan8)

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"symbols with neither", func() error { _, err := s.Symbols(ctx, SymbolQuery{}); return err }, "symbols"},
		{"symbols with both", func() error {
			_, err := s.Symbols(ctx, SymbolQuery{IDs: []int64{8049}, Names: []string{"AAPL"}})
			return err
		}, "symbols"},
		{"symbols raw with both", func() error {
			_, err := s.SymbolsRaw(ctx, SymbolQuery{IDs: []int64{8049}, Names: []string{"AAPL"}})
			return err
		}, "symbols"},
		{"search without prefix", func() error { _, err := s.SearchSymbols(ctx, ""); return err }, "prefix"},
		{"quotes without ids", func() error { _, err := s.Quotes(ctx, nil); return err }, "ids"},
		{"candles without range", func() error { _, err := s.Candles(ctx, 8049, DateRange{}, OneDay); return err }, "range"},
		{"candles with bad interval", func() error { _, err := s.Candles(ctx, 8049, rng, "Fortnight"); return err }, "interval"},
		{"candles raw with bad interval", func() error { _, err := s.CandlesRaw(ctx, 8049, rng, "oneday"); return err }, "interval"},
	}

	for _, tt := range tests {
		err := tt.call()

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr), tt.name)
		require.Equal(t, tt.field, cfgErr.Field, tt.name)
	}
	require.Zero(t, api.calls.Load())
}

func TestSymbolsQuery(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/symbols", `{"symbols":[
		{"symbol":"AAPL","symbolId":8049,"prevDayClosePrice":102.5,"eps":6.45,"pe":15.88,
		 "dividend":0.47,"yield":1.84,"listingExchange":"NASDAQ","description":"APPLE INC",
		 "securityType":"Stock","isTradable":true,"isQuotable":true,"hasOptions":true,
		 "currency":"USD","minTicks":[{"pivot":0,"minTick":0.0001},{"pivot":1,"minTick":0.01}],
		 "optionContractDeliverables":{"underlyings":[],"cashInLieu":0},
		 "industrySector":"Technology","industryGroup":"ComputerHardware","industrySubgroup":""}
	]}`)
	s := liveSession(newClient(t, login, api), api)

	syms, err := s.Symbols(t.Context(), SymbolQuery{IDs: []int64{8049, 9291}})
	require.NoError(t, err)
	require.Len(t, syms, 1)
	require.Equal(t, "APPLE INC", syms[0].Description)
	require.True(t, decimal.RequireFromString("15.88").Equal(syms[0].PE))

	var ticks []map[string]json.Number
	require.NoError(t, json.Unmarshal(syms[0].MinTicks, &ticks))
	require.Len(t, ticks, 2)

	q, err := url.ParseQuery(api.lastQuery())
	require.NoError(t, err)
	require.Equal(t, "8049,9291", q.Get("ids"))
	require.False(t, q.Has("names"))

	_, err = s.Symbols(t.Context(), SymbolQuery{Names: []string{"AAPL", "MSFT"}})
	require.NoError(t, err)
	q, err = url.ParseQuery(api.lastQuery())
	require.NoError(t, err)
	require.Equal(t, "AAPL,MSFT", q.Get("names"))
	require.False(t, q.Has("ids"))
}

func TestSearchSymbols(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/symbols/search", `{"symbols":[
		{"symbol":"BMO","symbolId":9292,"description":"BANK OF MONTREAL","securityType":"Stock",
		 "listingExchange":"NYSE","isTradable":true,"isQuotable":true,"currency":"USD"},
		{"symbol":"BMO.PRJ.TO","symbolId":9300,"description":"BANK OF MONTREAL CL B SR 13",
		 "securityType":"Stock","listingExchange":"TSX","isTradable":true,"isQuotable":true,"currency":"CAD"}
	]}`)
	s := liveSession(newClient(t, login, api), api)

	results, err := s.SearchSymbols(t.Context(), "BMO")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "BMO.PRJ.TO", results[1].Symbol)
	require.Equal(t, "prefix=BMO", api.lastQuery())
}

func TestQuotes(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/markets/quotes", `{"quotes":[
		{"symbol":"THI.TO","symbolId":38738,"bidPrice":83.65,"askPrice":83.67,"VWAP":83.7188},
		{"symbol":"AAPL","symbolId":8049,"bidPrice":null,"isHalted":false,"vwap":185.2}
	]}`)
	s := liveSession(newClient(t, login, api), api)

	quotes, err := s.Quotes(t.Context(), []int64{38738, 8049})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.Equal(t, "THI.TO", quotes[0].Symbol)
	require.Equal(t, "AAPL", quotes[1].Symbol)
	require.True(t, decimal.RequireFromString("185.2").Equal(quotes[1].VWAP))
	require.True(t, quotes[1].Has("bidPrice"))

	q, err := url.ParseQuery(api.lastQuery())
	require.NoError(t, err)
	require.Equal(t, "38738,8049", q.Get("ids"))
}

func TestCandles(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/markets/candles/8049", `{"candles":[
		{"start":"2024-01-01T00:00:00.000000-05:00","end":"2024-01-02T00:00:00.000000-05:00",
		 "low":183.89,"high":188.44,"open":187.15,"close":185.64,"volume":82488700,"VWAP":185.9}
	]}`)
	s := liveSession(newClient(t, login, api), api)

	t.Run("default interval", func(t *testing.T) {
		candles, err := s.Candles(t.Context(), 8049, NewDateRange(jan1, jan8), "")
		require.NoError(t, err)
		require.Len(t, candles, 1)
		require.True(t, decimal.RequireFromString("185.64").Equal(candles[0].Close))
		require.Equal(t, int64(82488700), candles[0].Volume)

		q, err := url.ParseQuery(api.lastQuery())
		require.NoError(t, err)
		require.Equal(t, "OneDay", q.Get("interval"))
		require.Equal(t, "2024-01-01T00:00:00.000000-05:00", q.Get("startTime"))
		require.Equal(t, "2024-01-08T00:00:00.000000-05:00", q.Get("endTime"))
	})

	t.Run("explicit interval", func(t *testing.T) {
		_, err := s.Candles(t.Context(), 8049, NewDateRange(jan1, jan8), FifteenMinutes)
		require.NoError(t, err)

		q, err := url.ParseQuery(api.lastQuery())
		require.NoError(t, err)
		require.Equal(t, "FifteenMinutes", q.Get("interval"))
	})
}

func TestServerTime(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/time", `{"time":"2024-01-02T10:31:28.177000-05:00"}`)
	s := expiredSession(newClient(t, login, api), api)

	raw, err := s.ServerTime(t.Context())
	require.NoError(t, err)
	require.Equal(t, "2024-01-02T10:31:28.177000-05:00", raw["time"])
	require.Equal(t, int32(1), login.calls.Load(), "raw calls share the refresh pipeline")
}

func TestRawNullBody(t *testing.T) {
	t.Parallel()

	login, api := newFakeLogin(t), newFakeAPI(t)
	api.respond("/v1/time", `null`)
	s := liveSession(newClient(t, login, api), api)

	_, err := s.ServerTime(t.Context())
	require.ErrorIs(t, err, ErrMalformedResponse)
}
