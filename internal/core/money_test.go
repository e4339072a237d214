package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{100, "1,00"},
		{123450, "1.234,50"},
		{123456, "1.234,56"},
		{100000000, "1.000.000,00"},
		{99999999999, "999.999.999,99"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Display(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestDigitsToDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", ""},
		{"0", "0,00"},
		{"5", "0,05"},
		{"50", "0,50"},
		{"500", "5,00"},
		{"123456", "1.234,56"},
		{"1a2b3c", "1,23"},
		{"R$ 1.234,56", "1.234,56"}, // separators stripped, digits kept
	}
	for _, tc := range cases {
		if got := DigitsToDisplay(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0,00", 0},
		{"1.234,56", 123456},
		{"0,05", 5},
		{"1234,5", 123450},
		{"garbage", 0},
		{"", 0},
		{"-5,00", 0}, // negatives degrade to zero
	}
	for _, tc := range cases {
		if got := ParseDisplay(tc.in); got.Cents != tc.want {
			t.Fatalf("%q: expected %d cents, got %d", tc.in, tc.want, got.Cents)
		}
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	cents := []int64{0, 1, 5, 99, 100, 101, 999, 1000, 123456, 100000000, 99999999999}
	for _, c := range cents {
		m := Money{Cents: c}
		if got := ParseDisplay(m.Display()); got != m {
			t.Fatalf("round trip failed for %d cents: display %q parsed to %d", c, m.Display(), got.Cents)
		}
	}
}
