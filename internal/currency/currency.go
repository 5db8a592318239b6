// Package currency implements the exchange-rate lookup contract
// spec.md §4.5 step 5 needs (eval.CurrencyHandler) plus a reference
// implementation backed by the OpenExchangeRates API.
//
// Directly grounded on the teacher's currency.go: same
// ExchangeRates/getAPIKey/getRatesURL/httpGet/cache-file shape, with
// the in-process `var rates *ExchangeRates` global replaced by a
// receiver on *OpenExchangeRates so multiple independent Contexts
// (spec.md §5) don't share mutable state, and a SQLite-backed
// secondary cache (internal/unitdb.Cache's sibling) added alongside
// the teacher's JSON file cache so a rate survives even if the JSON
// cache file is lost mid-process.
package currency

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ExchangeRates mirrors the OpenExchangeRates API response schema.
type ExchangeRates struct {
	Disclaimer string             `json:"disclaimer"`
	License    string             `json:"license"`
	Timestamp  int64              `json:"timestamp"`
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
}

// OpenExchangeRates is a CurrencyHandler-shaped rate source: an
// in-memory snapshot, a JSON file cache, and a SQLite last-known-good
// fallback, queried in that order.
type OpenExchangeRates struct {
	Date    string // empty for latest rates, "YYYY-MM-DD" for historical
	APIKey  string
	rates   *ExchangeRates
	db      *sql.DB
	cacheFn func(date string) (string, error)
}

// Open builds an OpenExchangeRates source, opening (and creating if
// necessary) its SQLite fallback cache at $HOME/data/qcalc-rates.sqlite3,
// the same lazy-open idiom as database.go's initDatabase.
func Open() (*OpenExchangeRates, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("currency: failed to get home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("currency: failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "qcalc-rates.sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("currency: failed to open rate cache: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS rates (
		date TEXT NOT NULL,
		code TEXT NOT NULL,
		rate REAL NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (date, code)
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("currency: failed to create schema: %w", err)
	}
	return &OpenExchangeRates{db: db, cacheFn: getCacheFile}, nil
}

// Close releases the SQLite handle.
func (o *OpenExchangeRates) Close() {
	if o != nil && o.db != nil {
		o.db.Close()
	}
}

// Handler adapts o to the eval.CurrencyHandler function signature
// (code string) (scale float64, ok bool), without internal/currency
// importing internal/eval (avoiding an import cycle the other way).
func (o *OpenExchangeRates) Handler() func(code string) (float64, bool) {
	return func(code string) (float64, bool) {
		rate, err := o.Rate(strings.ToUpper(code))
		if err != nil {
			return 0, false
		}
		return rate, true
	}
}

// Rate returns the USD-relative scale for code: one unit of code is
// worth `rate` USD. USD itself is the base, rate 1.
func (o *OpenExchangeRates) Rate(code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == "USD" {
		return 1, nil
	}
	rates, err := o.getRates()
	if err != nil {
		if r, ok, dbErr := o.loadFromSQLite(code); dbErr == nil && ok {
			return r, nil
		}
		return 0, err
	}
	rate, ok := rates.Rates[code]
	if !ok {
		if r, ok, dbErr := o.loadFromSQLite(code); dbErr == nil && ok {
			return r, nil
		}
		return 0, fmt.Errorf("currency: unable to find exchange rate for %s", code)
	}
	return 1 / rate, nil // rates.Rates[code] is USD->code; Rate reports code->USD
}

func (o *OpenExchangeRates) getRates() (*ExchangeRates, error) {
	if o.rates != nil && !o.isExpired(o.rates) {
		return o.rates, nil
	}

	cacheFile, err := o.cacheFn(o.Date)
	if err != nil {
		return nil, err
	}
	if cached, err := loadRatesFromCache(cacheFile); err == nil && !o.isExpired(cached) {
		o.rates = cached
		o.storeSQLite(cached)
		return o.rates, nil
	}

	apiKey := o.APIKey
	if apiKey == "" {
		var err error
		apiKey, err = getAPIKey("openexchangerates")
		if err != nil {
			return nil, err
		}
	}
	fetched, err := httpGet(getRatesURL(o.Date), apiKey)
	if err != nil {
		return nil, err
	}
	if err := saveRatesToCache(fetched, cacheFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save rates to cache: %v\n", err)
	}
	o.rates = fetched
	o.storeSQLite(fetched)
	return o.rates, nil
}

func (o *OpenExchangeRates) isExpired(r *ExchangeRates) bool {
	if r == nil {
		return true
	}
	if o.Date != "" {
		return false // historical rates never expire
	}
	return time.Since(time.Unix(r.Timestamp, 0)) > time.Hour
}

func (o *OpenExchangeRates) storeSQLite(r *ExchangeRates) {
	if o.db == nil {
		return
	}
	date := o.Date
	if date == "" {
		date = "latest"
	}
	for code, rate := range r.Rates {
		o.db.Exec(`INSERT OR REPLACE INTO rates (date, code, rate) VALUES (?, ?, ?)`, date, code, rate)
	}
}

func (o *OpenExchangeRates) loadFromSQLite(code string) (float64, bool, error) {
	if o.db == nil {
		return 0, false, nil
	}
	date := o.Date
	if date == "" {
		date = "latest"
	}
	var rate float64
	row := o.db.QueryRow(`SELECT rate FROM rates WHERE date = ? AND code = ?`, date, code)
	if err := row.Scan(&rate); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return 1 / rate, true, nil
}

func getAPIKey(source string) (string, error) {
	if apiKey := os.Getenv(source); apiKey != "" {
		return apiKey, nil
	}
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("security", "find-generic-password", "-s", source, "-a", "api_key", "-w")
		output, err := cmd.Output()
		if err == nil {
			if apiKey := strings.TrimSpace(string(output)); apiKey != "" {
				return apiKey, nil
			}
		}
	}
	return "", fmt.Errorf(`currency: set %s in the environment or (macOS) Keychain, e.g.
  export %s=$api_key`, source, source)
}

func getCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	cacheDir := filepath.Join(homeDir, "data", "currency")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}
	return cacheDir, nil
}

func getRatesURL(date string) string {
	baseURL := "https://openexchangerates.org/api"
	if date != "" {
		return fmt.Sprintf("%s/historical/%s.json", baseURL, date)
	}
	return fmt.Sprintf("%s/latest.json", baseURL)
}

func getCacheFile(date string) (string, error) {
	cacheDir, err := getCacheDir()
	if err != nil {
		return "", err
	}
	if date != "" {
		return filepath.Join(cacheDir, fmt.Sprintf("%s-rates.json", date)), nil
	}
	return filepath.Join(cacheDir, "rates.json"), nil
}

func httpGet(url, token string) (*ExchangeRates, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", token))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency: HTTP failure %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var exchangeRates ExchangeRates
	if err := json.Unmarshal(body, &exchangeRates); err != nil {
		return nil, err
	}
	return &exchangeRates, nil
}

func loadRatesFromCache(cacheFile string) (*ExchangeRates, error) {
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, err
	}
	var exchangeRates ExchangeRates
	if err := json.Unmarshal(data, &exchangeRates); err != nil {
		return nil, err
	}
	return &exchangeRates, nil
}

func saveRatesToCache(rates *ExchangeRates, cacheFile string) error {
	data, err := json.MarshalIndent(rates, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cacheFile, data, 0o644)
}

// SupportedSymbols maps common currency symbols/aliases to ISO codes,
// grounded on the teacher's supportedCurrencies table.
var SupportedSymbols = map[string]string{
	"usd": "USD", "$": "USD",
	"eur": "EUR", "€": "EUR",
	"gbp": "GBP", "£": "GBP",
	"yen": "JPY", "jpy": "JPY", "¥": "JPY",
	"btc": "BTC",
}

// Normalize resolves a currency symbol/alias to its ISO code.
func Normalize(symbol string) (string, bool) {
	code, ok := SupportedSymbols[strings.ToLower(symbol)]
	return code, ok
}
