package handlers

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errInvalidAmount = errors.New("amount must be an integer")

// Amount is an integer request field that also accepts numeric strings,
// so "5", 5 and 5.0 all decode to 5. Fractions are rejected.
type Amount struct {
	Value int64
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return errInvalidAmount
		}
		raw = []byte(s)
	}

	v, err := parseAmount(string(raw))
	if err != nil {
		return err
	}
	a.Value = v
	return nil
}

func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0, errInvalidAmount
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errInvalidAmount
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errInvalidAmount
	}
	return int64(f), nil
}
