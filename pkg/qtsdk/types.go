package qtsdk

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Typed records
//
// Each record embeds the validated Record it was decoded from, so callers can
// tell an absent field (Has reports false) from a zero value. Prices and money
// amounts are decimals; timestamps are the provider's ISO-8601 strings.
// ============================================================================

// RawJSON is a response body returned verbatim. Every API endpoint answers
// with a JSON object, so a body of any other shape is a malformed response.
// Numbers are json.Number so they are not rounded through float64.
type RawJSON map[string]any

// tokenResponse is the identity provider's refresh payload.
type tokenResponse struct {
	Record `json:"-"`

	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	APIServer    string `json:"api_server"`
}

// ============================================================================
// Market data
// ============================================================================

// Quote is a Level 1 quote for a symbol.
type Quote struct {
	Record `json:"-"`

	Symbol              string          `json:"symbol"`
	SymbolID            int64           `json:"symbolId"`
	Tier                string          `json:"tier"`
	BidPrice            decimal.Decimal `json:"bidPrice"`
	BidSize             int64           `json:"bidSize"`
	AskPrice            decimal.Decimal `json:"askPrice"`
	AskSize             int64           `json:"askSize"`
	LastTradePriceTrHrs decimal.Decimal `json:"lastTradePriceTrHrs"`
	LastTradePrice      decimal.Decimal `json:"lastTradePrice"`
	LastTradeSize       int64           `json:"lastTradeSize"`
	LastTradeTick       string          `json:"lastTradeTick"`
	LastTradeTime       string          `json:"lastTradeTime"`
	Volume              int64           `json:"volume"`
	OpenPrice           decimal.Decimal `json:"openPrice"`
	HighPrice           decimal.Decimal `json:"highPrice"`
	LowPrice            decimal.Decimal `json:"lowPrice"`
	Delay               int64           `json:"delay"`
	IsHalted            bool            `json:"isHalted"`
	High52W             decimal.Decimal `json:"high52w"`
	Low52W              decimal.Decimal `json:"low52w"`
	VWAP                decimal.Decimal `json:"VWAP"`
}

// Candle is one OHLC bar of historical market data.
type Candle struct {
	Record `json:"-"`

	Start  string          `json:"start"`
	End    string          `json:"end"`
	Low    decimal.Decimal `json:"low"`
	High   decimal.Decimal `json:"high"`
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
	VWAP   decimal.Decimal `json:"VWAP"`
}

// SymbolData is the detailed description of a symbol.
type SymbolData struct {
	Record `json:"-"`

	Symbol                     string          `json:"symbol"`
	SymbolID                   int64           `json:"symbolId"`
	PrevDayClosePrice          decimal.Decimal `json:"prevDayClosePrice"`
	HighPrice52                decimal.Decimal `json:"highPrice52"`
	LowPrice52                 decimal.Decimal `json:"lowPrice52"`
	AverageVol3Months          int64           `json:"averageVol3Months"`
	AverageVol20Days           int64           `json:"averageVol20Days"`
	OutstandingShares          int64           `json:"outstandingShares"`
	EPS                        decimal.Decimal `json:"eps"`
	PE                         decimal.Decimal `json:"pe"`
	Dividend                   decimal.Decimal `json:"dividend"`
	Yield                      decimal.Decimal `json:"yield"`
	ExDate                     string          `json:"exDate"`
	MarketCap                  decimal.Decimal `json:"marketCap"`
	TradeUnit                  int64           `json:"tradeUnit"`
	OptionType                 string          `json:"optionType"`
	OptionDurationType         string          `json:"optionDurationType"`
	OptionRoot                 string          `json:"optionRoot"`
	OptionContractDeliverables json.RawMessage `json:"optionContractDeliverables"`
	OptionExerciseType         string          `json:"optionExerciseType"`
	ListingExchange            string          `json:"listingExchange"`
	Description                string          `json:"description"`
	SecurityType               string          `json:"securityType"`
	OptionExpiryDate           string          `json:"optionExpiryDate"`
	DividendDate               string          `json:"dividendDate"`
	OptionStrikePrice          decimal.Decimal `json:"optionStrikePrice"`
	IsTradable                 bool            `json:"isTradable"`
	IsQuotable                 bool            `json:"isQuotable"`
	HasOptions                 bool            `json:"hasOptions"`
	Currency                   string          `json:"currency"`
	MinTicks                   json.RawMessage `json:"minTicks"`
	IndustrySector             string          `json:"industrySector"`
	IndustryGroup              string          `json:"industryGroup"`
	IndustrySubgroup           string          `json:"industrySubgroup"`
}

// SearchResult is one match of a symbol prefix search.
type SearchResult struct {
	Record `json:"-"`

	Symbol          string `json:"symbol"`
	SymbolID        int64  `json:"symbolId"`
	Description     string `json:"description"`
	SecurityType    string `json:"securityType"`
	ListingExchange string `json:"listingExchange"`
	IsTradable      bool   `json:"isTradable"`
	IsQuotable      bool   `json:"isQuotable"`
	Currency        string `json:"currency"`
}

// ============================================================================
// Account data
// ============================================================================

// TradingAccount is an account the token holder can access.
type TradingAccount struct {
	Record `json:"-"`

	Type              string `json:"type"`
	Number            string `json:"number"`
	Status            string `json:"status"`
	IsPrimary         bool   `json:"isPrimary"`
	IsBilling         bool   `json:"isBilling"`
	ClientAccountType string `json:"clientAccountType"`
}

// Position is a holding in an account.
type Position struct {
	Record `json:"-"`

	Symbol             string          `json:"symbol"`
	SymbolID           int64           `json:"symbolId"`
	OpenQuantity       decimal.Decimal `json:"openQuantity"`
	ClosedQuantity     decimal.Decimal `json:"closedQuantity"`
	CurrentMarketValue decimal.Decimal `json:"currentMarketValue"`
	CurrentPrice       decimal.Decimal `json:"currentPrice"`
	AverageEntryPrice  decimal.Decimal `json:"averageEntryPrice"`
	DayPnL             decimal.Decimal `json:"dayPnl"`
	ClosedPnL          decimal.Decimal `json:"closedPnl"`
	OpenPnL            decimal.Decimal `json:"openPnl"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	IsRealTime         bool            `json:"isRealTime"`
	IsUnderReorg       bool            `json:"isUnderReorg"`
}

// Activity is an account event such as a trade, dividend or deposit.
type Activity struct {
	Record `json:"-"`

	TradeDate       string          `json:"tradeDate"`
	TransactionDate string          `json:"transactionDate"`
	SettlementDate  string          `json:"settlementDate"`
	Action          string          `json:"action"`
	Symbol          string          `json:"symbol"`
	SymbolID        int64           `json:"symbolId"`
	Description     string          `json:"description"`
	Currency        string          `json:"currency"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	Commission      decimal.Decimal `json:"commission"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	Type            string          `json:"type"`
}

// Execution is a fill against an order.
type Execution struct {
	Record `json:"-"`

	Symbol                   string          `json:"symbol"`
	SymbolID                 int64           `json:"symbolId"`
	Quantity                 decimal.Decimal `json:"quantity"`
	Side                     string          `json:"side"`
	Price                    decimal.Decimal `json:"price"`
	ID                       int64           `json:"id"`
	OrderID                  int64           `json:"orderId"`
	OrderChainID             int64           `json:"orderChainId"`
	ExchangeExecID           string          `json:"exchangeExecId"`
	Timestamp                string          `json:"timestamp"`
	Notes                    string          `json:"notes"`
	Venue                    string          `json:"venue"`
	TotalCost                decimal.Decimal `json:"totalCost"`
	OrderPlacementCommission decimal.Decimal `json:"orderPlacementCommission"`
	Commission               decimal.Decimal `json:"commission"`
	ExecutionFee             decimal.Decimal `json:"executionFee"`
	SecFee                   decimal.Decimal `json:"secFee"`
	CanadianExecutionFee     decimal.Decimal `json:"canadianExecutionFee"`
	ParentID                 int64           `json:"parentId"`
}

// Order is an order placed in an account.
type Order struct {
	Record `json:"-"`

	ID                       int64           `json:"id"`
	Symbol                   string          `json:"symbol"`
	SymbolID                 int64           `json:"symbolId"`
	TotalQuantity            decimal.Decimal `json:"totalQuantity"`
	OpenQuantity             decimal.Decimal `json:"openQuantity"`
	FilledQuantity           decimal.Decimal `json:"filledQuantity"`
	CanceledQuantity         decimal.Decimal `json:"canceledQuantity"`
	Side                     string          `json:"side"`
	OrderType                string          `json:"orderType"`
	LimitPrice               decimal.Decimal `json:"limitPrice"`
	StopPrice                decimal.Decimal `json:"stopPrice"`
	IsAllOrNone              bool            `json:"isAllOrNone"`
	IsAnonymous              bool            `json:"isAnonymous"`
	IcebergQuantity          decimal.Decimal `json:"icebergQuantity"`
	MinQuantity              decimal.Decimal `json:"minQuantity"`
	AvgExecPrice             decimal.Decimal `json:"avgExecPrice"`
	LastExecPrice            decimal.Decimal `json:"lastExecPrice"`
	Source                   string          `json:"source"`
	TimeInForce              string          `json:"timeInForce"`
	GTDDate                  string          `json:"gtdDate"`
	State                    string          `json:"state"`
	ClientReasonStr          string          `json:"clientReasonStr"`
	ChainID                  int64           `json:"chainId"`
	CreationTime             string          `json:"creationTime"`
	UpdateTime               string          `json:"updateTime"`
	Notes                    string          `json:"notes"`
	PrimaryRoute             string          `json:"primaryRoute"`
	SecondaryRoute           string          `json:"secondaryRoute"`
	OrderRoute               string          `json:"orderRoute"`
	VenueHoldingOrder        string          `json:"venueHoldingOrder"`
	CommissionCharged        decimal.Decimal `json:"comissionCharged"`
	ExchangeOrderID          string          `json:"exchangeOrderId"`
	IsSignificantShareHolder bool            `json:"isSignificantShareHolder"`
	IsInsider                bool            `json:"isInsider"`
	IsLimitOffsetInDollar    bool            `json:"isLimitOffsetInDollar"`
	UserID                   int64           `json:"userId"`
	PlacementCommission      decimal.Decimal `json:"placementCommission"`
	Legs                     json.RawMessage `json:"legs"`
	StrategyType             string          `json:"strategyType"`
	TriggerStopPrice         decimal.Decimal `json:"triggerStopPrice"`
	OrderGroupID             int64           `json:"orderGroupId"`
	OrderClass               string          `json:"orderClass"`
}

// CurrencyBalance is an account balance in one currency.
type CurrencyBalance struct {
	Record `json:"-"`

	Currency          string          `json:"currency"`
	Cash              decimal.Decimal `json:"cash"`
	MarketValue       decimal.Decimal `json:"marketValue"`
	TotalEquity       decimal.Decimal `json:"totalEquity"`
	BuyingPower       decimal.Decimal `json:"buyingPower"`
	MaintenanceExcess decimal.Decimal `json:"maintenanceExcess"`
	IsRealTime        bool            `json:"isRealTime"`
}
