package qtsdk

import (
	"context"
	"net/url"
	"slices"
)

// Account operations. Each has a typed form and a Raw form returning the
// response body unvalidated.

// OrderStateFilter selects orders by state.
type OrderStateFilter string

const (
	OrderStateAll    OrderStateFilter = "All"
	OrderStateOpen   OrderStateFilter = "Open"
	OrderStateClosed OrderStateFilter = "Closed"
)

var orderStates = []OrderStateFilter{OrderStateAll, OrderStateOpen, OrderStateClosed}

// OrderQuery filters the orders listing. A zero Range lists without a time
// window; an empty State means OrderStateAll.
type OrderQuery struct {
	Range DateRange
	State OrderStateFilter
}

func accountPath(accountID, resource string) string {
	p := "/v1/accounts/" + url.PathEscape(accountID)
	if resource != "" {
		p += "/" + resource
	}
	return p
}

func requireAccount(accountID string) error {
	if accountID == "" {
		return configErrorf("account_id", "required")
	}
	return nil
}

// ============================================================================
// Accounts
// ============================================================================

func accountsCall() call {
	return call{path: "/v1/accounts", key: "accounts", kind: KindTradingAccount}
}

// Accounts lists the accounts the token holder can access.
func (s *Session) Accounts(ctx context.Context) ([]TradingAccount, error) {
	return fetch[TradingAccount](ctx, s, accountsCall())
}

// AccountsRaw is Accounts without validation.
func (s *Session) AccountsRaw(ctx context.Context) (RawJSON, error) {
	return s.fetchRaw(ctx, accountsCall())
}

// ============================================================================
// Positions
// ============================================================================

func positionsCall(accountID string) (call, error) {
	if err := requireAccount(accountID); err != nil {
		return call{}, err
	}
	return call{path: accountPath(accountID, "positions"), key: "positions", kind: KindPosition}, nil
}

// Positions lists the positions held in an account.
func (s *Session) Positions(ctx context.Context, accountID string) ([]Position, error) {
	c, err := positionsCall(accountID)
	if err != nil {
		return nil, err
	}
	return fetch[Position](ctx, s, c)
}

// PositionsRaw is Positions without validation.
func (s *Session) PositionsRaw(ctx context.Context, accountID string) (RawJSON, error) {
	c, err := positionsCall(accountID)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Balances
// ============================================================================

func balancesCall(accountID string) (call, error) {
	if err := requireAccount(accountID); err != nil {
		return call{}, err
	}
	return call{
		path: accountPath(accountID, "balances"),
		key:  "perCurrencyBalances",
		kind: KindCurrencyBalance,
	}, nil
}

// Balances returns the per-currency balances of an account.
func (s *Session) Balances(ctx context.Context, accountID string) ([]CurrencyBalance, error) {
	c, err := balancesCall(accountID)
	if err != nil {
		return nil, err
	}
	return fetch[CurrencyBalance](ctx, s, c)
}

// BalancesRaw is Balances without validation. The raw body also carries the
// combined and start-of-day balances.
func (s *Session) BalancesRaw(ctx context.Context, accountID string) (RawJSON, error) {
	c, err := balancesCall(accountID)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Activities
// ============================================================================

func activitiesCall(accountID string, rng DateRange) (call, error) {
	if err := requireAccount(accountID); err != nil {
		return call{}, err
	}
	if rng.IsZero() {
		return call{}, configErrorf("range", "activities require a date range")
	}

	q := url.Values{}
	rng.apply(q)
	return call{
		path:  accountPath(accountID, "activities"),
		query: q,
		key:   "activities",
		kind:  KindActivity,
	}, nil
}

// Activities lists account activity (trades, dividends, deposits) within rng.
func (s *Session) Activities(ctx context.Context, accountID string, rng DateRange) ([]Activity, error) {
	c, err := activitiesCall(accountID, rng)
	if err != nil {
		return nil, err
	}
	return fetch[Activity](ctx, s, c)
}

// ActivitiesRaw is Activities without validation.
func (s *Session) ActivitiesRaw(ctx context.Context, accountID string, rng DateRange) (RawJSON, error) {
	c, err := activitiesCall(accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Executions
// ============================================================================

func executionsCall(accountID string, rng DateRange) (call, error) {
	if err := requireAccount(accountID); err != nil {
		return call{}, err
	}

	var q url.Values
	if !rng.IsZero() {
		q = url.Values{}
		rng.apply(q)
	}
	return call{
		path:  accountPath(accountID, "executions"),
		query: q,
		key:   "executions",
		kind:  KindExecution,
	}, nil
}

// Executions lists fills in an account. A zero rng lets the server pick its
// default window.
func (s *Session) Executions(ctx context.Context, accountID string, rng DateRange) ([]Execution, error) {
	c, err := executionsCall(accountID, rng)
	if err != nil {
		return nil, err
	}
	return fetch[Execution](ctx, s, c)
}

// ExecutionsRaw is Executions without validation.
func (s *Session) ExecutionsRaw(ctx context.Context, accountID string, rng DateRange) (RawJSON, error) {
	c, err := executionsCall(accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}

// ============================================================================
// Orders
// ============================================================================

func ordersCall(accountID string, oq OrderQuery) (call, error) {
	if err := requireAccount(accountID); err != nil {
		return call{}, err
	}

	state := oq.State
	if state == "" {
		state = OrderStateAll
	}
	if !slices.Contains(orderStates, state) {
		return call{}, configErrorf("state", "must be one of %v, got %q", orderStates, state)
	}

	q := url.Values{}
	if !oq.Range.IsZero() {
		oq.Range.apply(q)
	}
	q.Set("stateFilter", string(state))

	return call{
		path:  accountPath(accountID, "orders"),
		query: q,
		key:   "orders",
		kind:  KindOrder,
	}, nil
}

// Orders lists orders in an account. An invalid state filter fails before any
// request is sent.
func (s *Session) Orders(ctx context.Context, accountID string, oq OrderQuery) ([]Order, error) {
	c, err := ordersCall(accountID, oq)
	if err != nil {
		return nil, err
	}
	return fetch[Order](ctx, s, c)
}

// OrdersRaw is Orders without validation.
func (s *Session) OrdersRaw(ctx context.Context, accountID string, oq OrderQuery) (RawJSON, error) {
	c, err := ordersCall(accountID, oq)
	if err != nil {
		return nil, err
	}
	return s.fetchRaw(ctx, c)
}
