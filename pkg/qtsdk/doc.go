/*
Package qtsdk provides a client for the Questrade REST API.

# Overview

The qtsdk package wraps the brokerage's read-only account and market data
endpoints. It keeps the OAuth2 credentials of a session, sends authenticated
requests, refreshes the access token when it expires, and validates every
response object against a fixed field allow-list before handing it back as a
typed record.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: Holds transport settings and creates sessions from credentials
  - Session: Owns the current tokens and exposes every endpoint

Create an SDKClient and exchange a refresh token for a session:

	client := qtsdk.NewSDKClient("") // DefaultLoginURL
	session, err := client.AuthenticateWithRefreshToken(ctx, refreshToken)

Tokens persisted by a previous run can be reused without a network call, as
long as they have not expired:

	session, err := client.NewSession(ctx, qtsdk.Credentials{
		AccessToken:  saved.AccessToken,
		RefreshToken: saved.RefreshToken,
		APIServer:    saved.APIServer,
		ExpiresAt:    saved.ExpiresAt,
	})

A session built from an access token alone never refreshes:

	session, err := client.NewSessionFromAccessToken(apiServer, accessToken)

Callers that need to persist the rotated tokens read them back from the
session:

	tok := session.Token()
	save(tok.AccessToken(), tok.RefreshToken(), tok.APIServer(), tok.ExpiresAt())

# Token Refresh

Every endpoint goes through the same pipeline:

 1. Send the request with the current access token
 2. On success, return the body
 3. On failure with a token that has not expired, return a *RequestError
 4. Otherwise refresh the token and send the request once more
 5. Return the result of the retry, success or *RequestError

A token with an unknown expiry counts as expired. Concurrent callers that
observe the same expired token share one refresh: the refresh runs under the
session lock, and a caller that arrives after the token was replaced reuses the
new one.

The identity provider may move a session to a different API server or rotate
the refresh token. Both are picked up from the refresh response; a refresh
response without a new refresh token keeps the old one.

# Records

Each endpoint returns typed records (Quote, Position, Order, ...). Records are
validated before decoding: a response object carrying a key outside the
allow-list of its kind fails with *FieldError, naming the key and listing the
keys received. Keys are matched case-insensitively, and absent fields are
legal. The embedded Record tells an absent field from a zero value:

	quotes, err := session.Quotes(ctx, []int64{8049})
	if quotes[0].Has("VWAP") {
		fmt.Println(quotes[0].VWAP)
	}

Prices and money amounts are shopspring decimals, so they round-trip exactly.

# Raw Mode

Every endpoint has a Raw variant that returns the decoded body without any
validation. Raw mode keeps working when the provider adds fields the package
does not know about yet:

	body, err := session.QuotesRaw(ctx, []int64{8049})

Numbers in raw bodies are json.Number.

# Date Ranges

Endpoints that take a time window accept a DateRange. Only the calendar date of
each instant is sent, formatted as midnight at a fixed -05:00 offset. The two
instants may be given in either order:

	rng := qtsdk.NewDateRange(time.Now(), time.Now().AddDate(0, 0, -30))
	acts, err := session.Activities(ctx, accountID, rng)

# Error Handling

The SDK returns typed errors:

  - ConfigurationError: Invalid input, reported before any network call
  - AuthError: The identity provider rejected a refresh
  - RequestError: An API call failed and a refresh could not help
  - FieldError: A response object no longer matches its allow-list

ErrNoRefreshToken is wrapped by the AuthError of a session that needs to
refresh but has no refresh token. ErrMalformedResponse is wrapped when a body
does not have the expected shape.

	_, err := session.Accounts(ctx)
	var reqErr *qtsdk.RequestError
	if errors.As(err, &reqErr) {
		log.Printf("status %d: %s", reqErr.StatusCode, reqErr.Body)
	}

# Thread Safety

Session is safe for concurrent use. SDKClient is safe for concurrent use once
configured; its fields must not change while sessions are in use.
*/
package qtsdk
