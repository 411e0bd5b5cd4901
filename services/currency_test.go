package services

import (
	"math"
	"testing"

	"recipe-giving/types"
)

func TestCurrencyForCode_UnknownFallsBackToUSD(t *testing.T) {
	for _, code := range []string{"", "XYZ", "BTC", "usdt", "€"} {
		got := CurrencyForCode(code)
		if got.Code != "USD" || got.Symbol != "$" || got.Rate != 1.1 {
			t.Errorf("CurrencyForCode(%q) = %+v, want the USD entry", code, got)
		}
	}
}

func TestCurrencyForCountry(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"IE", "EUR"},
		{"de", "EUR"},
		{"GB", "GBP"},
		{"JP", "JPY"},
		{"NZ", "NZD"},
		{"BR", "USD"},
		{"", "USD"},
	}

	for _, tt := range tests {
		if got := CurrencyForCountry(tt.country); got.Code != tt.want {
			t.Errorf("CurrencyForCountry(%q) = %s, want %s", tt.country, got.Code, tt.want)
		}
	}
}

func TestConvertFromEUR(t *testing.T) {
	tests := []struct {
		eur  float64
		code string
		want int64
	}{
		{15, "EUR", 15},
		{15, "USD", 17}, // 16.5 rounds up
		{8, "GBP", 7},   // 6.8
		{25, "JPY", 4000},
		{30, "SEK", 345},
		{15, "XYZ", 17}, // unknown code converts as USD
		{0, "USD", 0},
		{math.NaN(), "USD", 0},
	}

	for _, tt := range tests {
		if got := ConvertFromEUR(tt.eur, tt.code); got != tt.want {
			t.Errorf("ConvertFromEUR(%v, %s) = %d, want %d", tt.eur, tt.code, got, tt.want)
		}
	}
}

func TestConvertFromEUR_Monotonic(t *testing.T) {
	for code := range currencyTable {
		prev := ConvertFromEUR(0, code)
		for eur := 0.25; eur <= 200; eur += 0.25 {
			got := ConvertFromEUR(eur, code)
			if got < prev {
				t.Fatalf("ConvertFromEUR not monotonic for %s: %v -> %d after %d", code, eur, got, prev)
			}
			prev = got
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		code   string
		want   string
	}{
		{8, "EUR", "€8"},
		{17, "USD", "$17"},
		{2400, "JPY", "¥2400"},
		{12, "CHF", "CHF12"},
		{5, "nope", "$5"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount, tt.code); got != tt.want {
			t.Errorf("FormatAmount(%d, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestFormatForLocation(t *testing.T) {
	if got := FormatForLocation(7, &types.UserLocation{CurrencySymbol: "£"}); got != "£7" {
		t.Errorf("FormatForLocation = %q, want £7", got)
	}
	if got := FormatForLocation(7, &types.UserLocation{}); got != "$7" {
		t.Errorf("FormatForLocation without symbol = %q, want $7", got)
	}
	if got := FormatForLocation(7, nil); got != "$7" {
		t.Errorf("FormatForLocation(nil) = %q, want $7", got)
	}
}
