package qtsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind identifies a record variant and selects its field allow-list.
type Kind string

const (
	KindToken           Kind = "token"
	KindQuote           Kind = "quote"
	KindCandle          Kind = "candle"
	KindSymbolData      Kind = "symbol"
	KindSearchResult    Kind = "search_result"
	KindTradingAccount  Kind = "account"
	KindPosition        Kind = "position"
	KindActivity        Kind = "activity"
	KindExecution       Kind = "execution"
	KindOrder           Kind = "order"
	KindCurrencyBalance Kind = "currency_balance"
)

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// ============================================================================
// Field allow-lists (canonical, upper-case)
// ============================================================================

var schemas = map[Kind][]string{
	KindToken: {
		"ACCESS_TOKEN", "REFRESH_TOKEN", "EXPIRES_IN", "TOKEN_TYPE", "API_SERVER",
	},
	KindQuote: {
		"SYMBOL", "SYMBOLID", "TIER", "BIDPRICE", "BIDSIZE", "ASKPRICE", "ASKSIZE",
		"LASTTRADEPRICETRHRS", "LASTTRADEPRICE", "LASTTRADESIZE", "LASTTRADETICK",
		"LASTTRADETIME", "VOLUME", "OPENPRICE", "HIGHPRICE", "LOWPRICE", "DELAY",
		"ISHALTED", "HIGH52W", "LOW52W", "VWAP",
	},
	KindCandle: {
		"START", "END", "LOW", "HIGH", "OPEN", "CLOSE", "VOLUME", "VWAP",
	},
	KindSymbolData: {
		"SYMBOL", "SYMBOLID", "PREVDAYCLOSEPRICE", "HIGHPRICE52", "LOWPRICE52",
		"AVERAGEVOL3MONTHS", "AVERAGEVOL20DAYS", "OUTSTANDINGSHARES", "EPS", "PE",
		"DIVIDEND", "YIELD", "EXDATE", "MARKETCAP", "TRADEUNIT", "OPTIONTYPE",
		"OPTIONDURATIONTYPE", "OPTIONROOT", "OPTIONCONTRACTDELIVERABLES",
		"OPTIONEXERCISETYPE", "LISTINGEXCHANGE", "DESCRIPTION", "SECURITYTYPE",
		"OPTIONEXPIRYDATE", "DIVIDENDDATE", "OPTIONSTRIKEPRICE", "ISTRADABLE",
		"ISQUOTABLE", "HASOPTIONS", "CURRENCY", "MINTICKS", "INDUSTRYSECTOR",
		"INDUSTRYGROUP", "INDUSTRYSUBGROUP",
	},
	KindSearchResult: {
		"SYMBOL", "SYMBOLID", "DESCRIPTION", "SECURITYTYPE", "LISTINGEXCHANGE",
		"ISTRADABLE", "ISQUOTABLE", "CURRENCY",
	},
	KindTradingAccount: {
		"TYPE", "NUMBER", "STATUS", "ISPRIMARY", "ISBILLING", "CLIENTACCOUNTTYPE",
	},
	KindPosition: {
		"SYMBOL", "SYMBOLID", "OPENQUANTITY", "CLOSEDQUANTITY", "CURRENTMARKETVALUE",
		"CURRENTPRICE", "AVERAGEENTRYPRICE", "DAYPNL", "CLOSEDPNL", "OPENPNL",
		"TOTALCOST", "ISREALTIME", "ISUNDERREORG",
	},
	KindActivity: {
		"TRADEDATE", "TRANSACTIONDATE", "SETTLEMENTDATE", "ACTION", "SYMBOL",
		"SYMBOLID", "DESCRIPTION", "CURRENCY", "QUANTITY", "PRICE", "GROSSAMOUNT",
		"COMMISSION", "NETAMOUNT", "TYPE",
	},
	KindExecution: {
		"SYMBOL", "SYMBOLID", "QUANTITY", "SIDE", "PRICE", "ID", "ORDERID",
		"ORDERCHAINID", "EXCHANGEEXECID", "TIMESTAMP", "NOTES", "VENUE", "TOTALCOST",
		"ORDERPLACEMENTCOMMISSION", "COMMISSION", "EXECUTIONFEE", "SECFEE",
		"CANADIANEXECUTIONFEE", "PARENTID",
	},
	KindOrder: {
		"ID", "SYMBOL", "SYMBOLID", "TOTALQUANTITY", "OPENQUANTITY", "FILLEDQUANTITY",
		"CANCELEDQUANTITY", "SIDE", "ORDERTYPE", "LIMITPRICE", "STOPPRICE",
		"ISALLORNONE", "ISANONYMOUS", "ICEBERGQUANTITY", "MINQUANTITY", "AVGEXECPRICE",
		"LASTEXECPRICE", "SOURCE", "TIMEINFORCE", "GTDDATE", "STATE",
		"CLIENTREASONSTR", "CHAINID", "CREATIONTIME", "UPDATETIME", "NOTES",
		"PRIMARYROUTE", "SECONDARYROUTE", "ORDERROUTE", "VENUEHOLDINGORDER",
		"COMISSIONCHARGED", "EXCHANGEORDERID", "ISSIGNIFICANTSHAREHOLDER", "ISINSIDER",
		"ISLIMITOFFSETINDOLLAR", "USERID", "PLACEMENTCOMMISSION", "LEGS",
		"STRATEGYTYPE", "TRIGGERSTOPPRICE", "ORDERGROUPID", "ORDERCLASS",
	},
	KindCurrencyBalance: {
		"CURRENCY", "CASH", "MARKETVALUE", "TOTALEQUITY", "BUYINGPOWER",
		"MAINTENANCEEXCESS", "ISREALTIME",
	},
}

// allowed is the lookup form of schemas, built once.
var allowed = func() map[Kind]map[string]struct{} {
	out := make(map[Kind]map[string]struct{}, len(schemas))
	for kind, fields := range schemas {
		set := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			set[f] = struct{}{}
		}
		out[kind] = set
	}
	return out
}()

// Fields returns a copy of the allow-list for kind, or nil for an unknown kind.
func Fields(kind Kind) []string {
	return slices.Clone(schemas[kind])
}

// ============================================================================
// Record
// ============================================================================

// Record is a validated response object: every key belongs to the allow-list
// of its kind. Values are kept exactly as received.
type Record struct {
	kind   Kind
	fields map[string]json.RawMessage
}

// Kind returns the record kind.
func (r Record) Kind() Kind { return r.kind }

// Has reports whether the field was present in the response. Matching is
// case-insensitive.
func (r Record) Has(field string) bool {
	_, ok := r.fields[strings.ToUpper(field)]
	return ok
}

// Get returns the raw JSON value of a field.
func (r Record) Get(field string) (json.RawMessage, bool) {
	v, ok := r.fields[strings.ToUpper(field)]
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// Present returns the canonical names of the fields that were set, sorted.
func (r Record) Present() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// bind lets typed records embed the Record they were decoded from.
func (r *Record) bind(rec Record) { *r = rec }

// MapRecord validates obj against the allow-list of kind and returns the
// resulting Record. Keys are matched case-insensitively; the first unknown key
// (in sorted order) fails with *FieldError. Absent fields are legal.
func MapRecord(obj map[string]json.RawMessage, kind Kind) (Record, error) {
	set, ok := allowed[kind]
	if !ok {
		return Record{}, configErrorf("kind", "unknown record kind %q", kind)
	}

	received := make([]string, 0, len(obj))
	for k := range obj {
		received = append(received, k)
	}
	slices.Sort(received)

	fields := make(map[string]json.RawMessage, len(obj))
	for _, k := range received {
		canon := strings.ToUpper(k)
		if _, ok := set[canon]; !ok {
			return Record{}, &FieldError{Kind: kind, Key: k, Received: received}
		}
		fields[canon] = obj[k]
	}

	return Record{kind: kind, fields: fields}, nil
}

// decode unmarshals the record into a typed struct. encoding/json matches
// field names case-insensitively, so canonical keys bind to camelCase tags.
func (r Record) decode(target any) error {
	data, err := json.Marshal(r.fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// typedRecord is satisfied by pointers to the typed record structs, which all
// embed Record.
type typedRecord[T any] interface {
	*T
	bind(Record)
}

// mapTyped validates one JSON object and decodes it into T.
func mapTyped[T any, PT typedRecord[T]](raw json.RawMessage, kind Kind) (T, error) {
	var out T

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return out, fmt.Errorf("%w: %s element is not an object", ErrMalformedResponse, kind)
	}

	rec, err := MapRecord(obj, kind)
	if err != nil {
		return out, err
	}

	if err := rec.decode(&out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, fmt.Errorf("%w: %s field %q holds a JSON %s, want %s",
				ErrMalformedResponse, kind, typeErr.Field, typeErr.Value, typeErr.Type)
		}
		return out, fmt.Errorf("%w: failed to decode %s: %v", ErrMalformedResponse, kind, err)
	}
	PT(&out).bind(rec)
	return out, nil
}
