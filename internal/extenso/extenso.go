// Package extenso renders monetary amounts as fully written-out Portuguese
// currency phrases, as required on the body of formal Brazilian receipts.
package extenso

import (
	"strings"

	"recibos/internal/core"
)

var (
	units = []string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}

	teens = []string{"dez", "onze", "doze", "treze", "quatorze", "quinze",
		"dezesseis", "dezessete", "dezoito", "dezenove"}

	tens = []string{"", "", "vinte", "trinta", "quarenta", "cinquenta",
		"sessenta", "setenta", "oitenta", "noventa"}

	// "cem" for exactly 100 is handled separately; hundreds[1] is the
	// "cento" prefix used for 101-199.
	hundreds = []string{"", "cento", "duzentos", "trezentos", "quatrocentos",
		"quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// Amount returns the full phrase for a BRL amount, e.g. Money{150} ->
// "um real e cinquenta centavos". Money{0} renders as "zero real".
func Amount(m core.Money) string {
	cents := m.Cents
	if cents < 0 {
		cents = 0
	}
	if cents == 0 {
		// Observed wording on printed receipts: singular, not "zero reais".
		return "zero real"
	}
	reais := cents / 100
	centavos := cents % 100

	phrase := Integer(reais) + " " + suffix(reais, "real", "reais")
	if centavos > 0 {
		phrase += " e " + Integer(centavos) + " " + suffix(centavos, "centavo", "centavos")
	}
	return phrase
}

// Integer converts a non-negative integer into Portuguese words.
// Values up to 999.999.999 are supported; receipts never exceed that.
func Integer(n int64) string {
	if n == 0 {
		return "zero"
	}
	if n >= 1_000_000 {
		head := Integer(n / 1_000_000)
		word := "milhões"
		if n/1_000_000 == 1 {
			head = "um"
			word = "milhão"
		}
		out := head + " " + word
		if rem := n % 1_000_000; rem > 0 {
			out += " e " + Integer(rem)
		}
		return out
	}
	if n >= 1000 {
		out := Integer(n/1000) + " mil"
		if rem := n % 1000; rem > 0 {
			out += " e " + Integer(rem)
		}
		return out
	}
	return smallInteger(n)
}

// smallInteger renders a 1-999 block.
func smallInteger(n int64) string {
	if n == 100 {
		return "cem"
	}
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	rest := n % 100
	switch {
	case rest == 0:
	case rest < 10:
		parts = append(parts, units[rest])
	case rest < 20:
		parts = append(parts, teens[rest-10])
	default:
		t := tens[rest/10]
		if u := rest % 10; u > 0 {
			t += " e " + units[u]
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " e ")
}

// suffix picks the singular form when the count is exactly one.
func suffix(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
