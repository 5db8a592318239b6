package currency

import (
	"fmt"
	"testing"
	"time"
)

func TestRateUSDIsBase(t *testing.T) {
	o := &OpenExchangeRates{}
	rate, err := o.Rate("usd")
	if err != nil {
		t.Fatal(err)
	}
	if rate != 1 {
		t.Errorf("got %v, want 1", rate)
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		rates   *ExchangeRates
		expired bool
	}{
		{"nil rates", "", nil, true},
		{"fresh latest", "", &ExchangeRates{Timestamp: time.Now().Unix()}, false},
		{"stale latest", "", &ExchangeRates{Timestamp: time.Now().Add(-2 * time.Hour).Unix()}, true},
		{"historical never expires", "2022-01-01", &ExchangeRates{Timestamp: time.Now().Add(-24 * time.Hour).Unix()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OpenExchangeRates{Date: tt.date}
			if got := o.isExpired(tt.rates); got != tt.expired {
				t.Errorf("isExpired() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestGetRatesURL(t *testing.T) {
	tests := []struct {
		date     string
		expected string
	}{
		{"", "https://openexchangerates.org/api/latest.json"},
		{"2022-01-01", "https://openexchangerates.org/api/historical/2022-01-01.json"},
	}
	for _, tt := range tests {
		if got := getRatesURL(tt.date); got != tt.expected {
			t.Errorf("getRatesURL(%q) = %q, want %q", tt.date, got, tt.expected)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		symbol   string
		expected string
		ok       bool
	}{
		{"$", "USD", true},
		{"EUR", "EUR", true},
		{"¥", "JPY", true},
		{"xyz", "", false},
	}
	for _, tt := range tests {
		code, ok := Normalize(tt.symbol)
		if ok != tt.ok || code != tt.expected {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.symbol, code, ok, tt.expected, tt.ok)
		}
	}
}

func TestHandlerReportsFailureWithoutRatesSource(t *testing.T) {
	o := &OpenExchangeRates{
		cacheFn: func(date string) (string, error) {
			return "", fmt.Errorf("no cache configured")
		},
	}
	handler := o.Handler()
	if _, ok := handler("EUR"); ok {
		t.Errorf("expected a rate lookup with no configured source to fail")
	}
}
