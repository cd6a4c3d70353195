// Package alphavantage classifies B3 tickers through the Alpha Vantage
// SYMBOL_SEARCH endpoint. It exists for one corner of the positions report:
// loaned tickers ending in 11, which can be stock UNITs, ETFs or real-estate
// funds, and nothing in the report itself tells them apart.
package alphavantage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"

	"github.com/b3tax/irpf"
)

// EnvAPIKey is the environment variable holding the Alpha Vantage API key.
const EnvAPIKey = "IRPF_REPORT_STOCKS_APIKEY"

const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrNoAPIKey reports that no API key is configured, so online
// classification is unavailable.
var ErrNoAPIKey = errors.New("alphavantage: no API key configured")

// Client queries Alpha Vantage. Responses are cached on disk for the day,
// so re-running the tool over the same report does not burn API quota.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New returns a client using the given API key.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Transport: &diskCache{base: http.DefaultTransport}},
	}
}

// NewFromEnv returns a client keyed from the environment, warning when the
// variable is unset.
func NewFromEnv() *Client {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		log.Warn().Str("env", EnvAPIKey).Msg("environment variable not set, online ticker classification is unavailable")
	}
	return New(key)
}

// Classify implements b3.Classifier: it searches the ticker and maps the
// asset type Alpha Vantage reports to one of ours.
func (c *Client) Classify(ticker string) (irpf.AssetKind, error) {
	match, err := c.search(ticker)
	if err != nil {
		return irpf.KindUnrecognized, err
	}
	kind, ok := map[string]irpf.AssetKind{
		"Equity":      irpf.UNIT,
		"ETF":         irpf.ETF,
		"Mutual Fund": irpf.FII,
	}[anyField(match, "type")]
	if !ok {
		return irpf.KindUnrecognized, fmt.Errorf("alphavantage: unexpected asset type %q for %q", anyField(match, "type"), ticker)
	}
	return kind, nil
}

// search returns the best match whose symbol is exactly the ticker.
func (c *Client) search(ticker string) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	params := url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {ticker},
		"apikey":   {c.apiKey},
	}
	resp, err := c.http.Get(c.baseURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("alphavantage: search %q: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: search %q: unexpected HTTP status %s", ticker, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("alphavantage: search %q: %w", ticker, err)
	}
	jval, err := jsonpath.Get("$.bestMatches[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: search %q: no matches in response: %w", ticker, err)
	}
	matches, ok := jval.([]any)
	if !ok {
		matches = []any{jval}
	}

	for _, m := range matches {
		match, ok := m.(map[string]any)
		if !ok {
			continue
		}
		// Alpha Vantage suffixes B3 symbols with the exchange: "XPML11.SAO".
		symbol, _, _ := strings.Cut(anyField(match, "symbol"), ".")
		if symbol == ticker {
			return match, nil
		}
	}
	return nil, fmt.Errorf("alphavantage: no match found for %q", ticker)
}

// anyField returns the value of the first key containing the given name.
// The API numbers its keys ("1. symbol", "3. type"), so exact lookups do not
// work.
func anyField(match map[string]any, name string) string {
	for key, value := range match {
		if !strings.Contains(key, name) {
			continue
		}
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
