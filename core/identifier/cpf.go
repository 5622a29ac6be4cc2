// Package identifier validates and formats CPF numbers, the 11-digit Brazilian
// individual taxpayer identifier used to register students.
package identifier

import (
	"math/rand"
	"strings"
)

// Length is the number of digits of a CPF.
const Length = 11

// Digits returns the decimal digits of raw, dropping everything else.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValid reports whether raw holds a valid CPF. Non-digit characters are ignored,
// so "529.982.247-25" and "52998224725" are equivalent.
func IsValid(raw string) bool {
	digits := Digits(raw)
	if len(digits) != Length {
		return false
	}

	var d [Length]int
	allSame := true
	for i := 0; i < Length; i++ {
		d[i] = int(digits[i] - '0')
		if d[i] != d[0] {
			allSame = false
		}
	}
	// repeated digits pass the checksum but are never issued
	if allSame {
		return false
	}

	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

// checkDigit computes the verification digit following `ds`.
// Weights go from len(ds)+1 down to 2.
func checkDigit(ds []int) int {
	var sum int
	weight := len(ds) + 1
	for _, n := range ds {
		sum += n * weight
		weight--
	}
	rem := (sum * 10) % 11
	if rem >= 10 {
		return 0
	}
	return rem
}

// Format returns raw as XXX.XXX.XXX-XX. ok is false if raw is not a valid CPF.
func Format(raw string) (formatted string, ok bool) {
	if !IsValid(raw) {
		return "", false
	}
	d := Digits(raw)
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11], true
}

// Mask hides all but the middle six digits: ***.XXX.XXX-**.
func Mask(raw string) string {
	if !IsValid(raw) {
		return ""
	}
	d := Digits(raw)
	return "***." + d[3:6] + "." + d[6:9] + "-**"
}

// Generate returns a random valid CPF (digits only).
func Generate(rnd *rand.Rand) string {
	var d [Length]int
	for {
		allSame := true
		for i := 0; i < 9; i++ {
			d[i] = rnd.Intn(10)
			if d[i] != d[0] {
				allSame = false
			}
		}
		if !allSame {
			break
		}
	}
	d[9] = checkDigit(d[:9])
	d[10] = checkDigit(d[:10])

	b := make([]byte, Length)
	for i, n := range d {
		b[i] = byte('0' + n)
	}
	return string(b)
}
