package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var ErrInvalidNumber = errors.New("invalid number")

// ParseNumber parses a non-negative decimal; ',' is accepted as the decimal
// separator.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// ParseCount parses a non-negative integer. "8 000" and "8000.0" are accepted.
func ParseCount(s string) (int64, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	v, err := ParseNumber(s)
	if err != nil || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, ErrInvalidNumber
	}
	return int64(v), nil
}

// ParseMacros parses four values kcal, protein, fat, carbs. Values may be
// separated by whitespace, ';' or '/'; when none of those occur they are
// split on ',' so decimals need '.' in that form ("1778,133,59,178").
func ParseMacros(s string) ([4]float64, error) {
	var res [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ';' || r == '/'
	})
	if len(fields) == 1 {
		fields = strings.Split(fields[0], ",")
	}
	if len(fields) != len(res) {
		return res, ErrInvalidNumber
	}
	for i, f := range fields {
		v, err := ParseNumber(f)
		if err != nil {
			return res, err
		}
		res[i] = v
	}
	return res, nil
}

var dateLayouts = []string{DateLayout, "02.01.2006", "2.1.2006", "02.01.06"}

// ParseDate accepts YYYY-MM-DD or DD.MM.YYYY and returns YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", errors.New("invalid date")
}
