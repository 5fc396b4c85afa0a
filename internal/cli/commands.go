package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/questrade/pkg/qtsdk"
)

type runFunc func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error)

// command binds its flags to fs and returns the function that runs it once
// the flags are parsed.
type command struct {
	summary string
	bind    func(fs *flag.FlagSet) runFunc
}

var commands = map[string]command{
	"accounts": {
		summary: "list accounts",
		bind: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				return either(raw,
					func() (any, error) { return s.Accounts(ctx) },
					func() (any, error) { return s.AccountsRaw(ctx) },
				)
			}
		},
	},
	"positions": {
		summary: "list positions (-account)",
		bind: func(fs *flag.FlagSet) runFunc {
			account := fs.String("account", "", "account number")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				return either(raw,
					func() (any, error) { return s.Positions(ctx, *account) },
					func() (any, error) { return s.PositionsRaw(ctx, *account) },
				)
			}
		},
	},
	"balances": {
		summary: "per-currency balances (-account)",
		bind: func(fs *flag.FlagSet) runFunc {
			account := fs.String("account", "", "account number")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				return either(raw,
					func() (any, error) { return s.Balances(ctx, *account) },
					func() (any, error) { return s.BalancesRaw(ctx, *account) },
				)
			}
		},
	},
	"activities": {
		summary: "account activity (-account -from -to)",
		bind: func(fs *flag.FlagSet) runFunc {
			account := fs.String("account", "", "account number")
			from, to := rangeFlags(fs)
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				rng, err := parseRange(*from, *to)
				if err != nil {
					return nil, err
				}
				return either(raw,
					func() (any, error) { return s.Activities(ctx, *account, rng) },
					func() (any, error) { return s.ActivitiesRaw(ctx, *account, rng) },
				)
			}
		},
	},
	"executions": {
		summary: "fills (-account [-from -to])",
		bind: func(fs *flag.FlagSet) runFunc {
			account := fs.String("account", "", "account number")
			from, to := rangeFlags(fs)
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				rng, err := parseRange(*from, *to)
				if err != nil {
					return nil, err
				}
				return either(raw,
					func() (any, error) { return s.Executions(ctx, *account, rng) },
					func() (any, error) { return s.ExecutionsRaw(ctx, *account, rng) },
				)
			}
		},
	},
	"orders": {
		summary: "orders (-account [-from -to] [-state All|Open|Closed])",
		bind: func(fs *flag.FlagSet) runFunc {
			account := fs.String("account", "", "account number")
			from, to := rangeFlags(fs)
			state := fs.String("state", string(qtsdk.OrderStateAll), "order state filter")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				rng, err := parseRange(*from, *to)
				if err != nil {
					return nil, err
				}
				oq := qtsdk.OrderQuery{Range: rng, State: qtsdk.OrderStateFilter(*state)}
				return either(raw,
					func() (any, error) { return s.Orders(ctx, *account, oq) },
					func() (any, error) { return s.OrdersRaw(ctx, *account, oq) },
				)
			}
		},
	},
	"symbols": {
		summary: "symbol details (-ids 1,2 | -names AAPL,MSFT)",
		bind: func(fs *flag.FlagSet) runFunc {
			ids := fs.String("ids", "", "comma-separated symbol ids")
			names := fs.String("names", "", "comma-separated tickers")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				idList, err := parseIDs(*ids)
				if err != nil {
					return nil, err
				}
				sq := qtsdk.SymbolQuery{IDs: idList, Names: splitList(*names)}
				return either(raw,
					func() (any, error) { return s.Symbols(ctx, sq) },
					func() (any, error) { return s.SymbolsRaw(ctx, sq) },
				)
			}
		},
	},
	"search": {
		summary: "search symbols (-prefix)",
		bind: func(fs *flag.FlagSet) runFunc {
			prefix := fs.String("prefix", "", "ticker or description prefix")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				return either(raw,
					func() (any, error) { return s.SearchSymbols(ctx, *prefix) },
					func() (any, error) { return s.SearchSymbolsRaw(ctx, *prefix) },
				)
			}
		},
	},
	"quotes": {
		summary: "Level 1 quotes (-ids)",
		bind: func(fs *flag.FlagSet) runFunc {
			ids := fs.String("ids", "", "comma-separated symbol ids")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				idList, err := parseIDs(*ids)
				if err != nil {
					return nil, err
				}
				return either(raw,
					func() (any, error) { return s.Quotes(ctx, idList) },
					func() (any, error) { return s.QuotesRaw(ctx, idList) },
				)
			}
		},
	},
	"candles": {
		summary: "historical bars (-id -from -to [-interval])",
		bind: func(fs *flag.FlagSet) runFunc {
			id := fs.Int64("id", 0, "symbol id")
			from, to := rangeFlags(fs)
			interval := fs.String("interval", string(qtsdk.OneDay), "bar interval, e.g. OneHour")
			return func(ctx context.Context, s *qtsdk.Session, raw bool) (any, error) {
				rng, err := parseRange(*from, *to)
				if err != nil {
					return nil, err
				}
				iv := qtsdk.Interval(*interval)
				return either(raw,
					func() (any, error) { return s.Candles(ctx, *id, rng, iv) },
					func() (any, error) { return s.CandlesRaw(ctx, *id, rng, iv) },
				)
			}
		},
	},
	"time": {
		summary: "server time",
		bind: func(fs *flag.FlagSet) runFunc {
			return func(ctx context.Context, s *qtsdk.Session, _ bool) (any, error) {
				return s.ServerTime(ctx)
			}
		},
	},
}

func either(raw bool, typed, untyped func() (any, error)) (any, error) {
	if raw {
		return untyped()
	}
	return typed()
}

func rangeFlags(fs *flag.FlagSet) (from, to *string) {
	from = fs.String("from", "", "start date (YYYY-MM-DD)")
	to = fs.String("to", "", "end date (YYYY-MM-DD)")
	return from, to
}

// parseRange turns two YYYY-MM-DD flags into a DateRange. Both empty gives
// the zero range; one alone is an error.
func parseRange(from, to string) (qtsdk.DateRange, error) {
	if from == "" && to == "" {
		return qtsdk.DateRange{}, nil
	}
	if from == "" || to == "" {
		return qtsdk.DateRange{}, &qtsdk.ConfigurationError{Field: "range", Reason: "-from and -to must be given together"}
	}

	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return qtsdk.DateRange{}, &qtsdk.ConfigurationError{Field: "from", Reason: err.Error()}
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return qtsdk.DateRange{}, &qtsdk.ConfigurationError{Field: "to", Reason: err.Error()}
	}
	return qtsdk.NewDateRange(start, end), nil
}

func parseIDs(s string) ([]int64, error) {
	parts := splitList(s)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &qtsdk.ConfigurationError{Field: "ids", Reason: fmt.Sprintf("%q is not a symbol id", p)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
