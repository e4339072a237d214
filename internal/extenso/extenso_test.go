package extenso

import (
	"testing"

	"recibos/internal/core"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "zero real"},
		{100, "um real"},
		{200, "dois reais"},
		{10000, "cem reais"},
		{150, "um real e cinquenta centavos"},
		{1, "zero reais e um centavo"},
		{101, "um real e um centavo"},
		{2550, "vinte e cinco reais e cinquenta centavos"},
		{1000000, "dez mil reais"},
		{123456, "um mil e duzentos e trinta e quatro reais e cinquenta e seis centavos"},
	}
	for _, tc := range cases {
		if got := Amount(core.Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestInteger(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{1, "um"},
		{9, "nove"},
		{10, "dez"},
		{11, "onze"},
		{15, "quinze"},
		{19, "dezenove"},
		{20, "vinte"},
		{21, "vinte e um"},
		{99, "noventa e nove"},
		{100, "cem"},
		{101, "cento e um"},
		{110, "cento e dez"},
		{115, "cento e quinze"},
		{121, "cento e vinte e um"},
		{200, "duzentos"},
		{345, "trezentos e quarenta e cinco"},
		{999, "novecentos e noventa e nove"},
		{1000, "um mil"},
		{1001, "um mil e um"},
		{2000, "dois mil"},
		{2345, "dois mil e trezentos e quarenta e cinco"},
		{100000, "cem mil"},
		{999999, "novecentos e noventa e nove mil e novecentos e noventa e nove"},
		{1000000, "um milhão"},
		{2000000, "dois milhões"},
		{1000001, "um milhão e um"},
		{2500300, "dois milhões e quinhentos mil e trezentos"},
	}
	for _, tc := range cases {
		if got := Integer(tc.n); got != tc.want {
			t.Fatalf("%d: expected %q, got %q", tc.n, tc.want, got)
		}
	}
}
