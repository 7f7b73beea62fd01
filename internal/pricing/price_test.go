package pricing

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	str := "₹2,500"
	var nilStr *string
	var nilFloat *float64
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"nil string pointer", nilStr, 0},
		{"nil float pointer", nilFloat, 0},
		{"int", 1200, 1200},
		{"float", 999.5, 999.5},
		{"int64", int64(42), 42},
		{"json number", json.Number("75.25"), 75.25},
		{"plain string", "1500", 1500},
		{"rupee with separators", "₹1,200", 1200},
		{"string pointer", &str, 2500},
		{"bytes", []byte("Rs. 800"), 800},
		{"decimal text", "INR 1,234.50 per person", 1234.5},
		{"second dot stops parsing", "1.2.3", 1.2},
		{"empty", "", 0},
		{"only symbols", "₹-", 0},
		{"lone dot", ".", 0},
		{"letters", "free", 0},
		{"negative number", -40, 0},
		{"negative text loses sign", "-40", 40},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"unsupported type", struct{}{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
			if got < 0 {
				t.Fatalf("Normalize(%v) returned negative %v", tc.in, got)
			}
		})
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:    "₹0",
		1200: "₹1,200",
		3600: "₹3,600",
		950:  "₹950",
	}
	for in, want := range cases {
		if got := FormatINR(in); got != want {
			t.Errorf("FormatINR(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmountHasNoSymbol(t *testing.T) {
	if got := FormatAmount(12000); got != "12,000" {
		t.Fatalf("FormatAmount(12000) = %q", got)
	}
}
