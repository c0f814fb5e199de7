package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNumberType = errors.New("numeric field must be a number, string or null")

// Number is a numeric form field. It keeps the text the user entered, so an
// empty or half-typed value survives a save and reload unchanged.
//
// It decodes from a JSON number, a JSON string or null, and encodes back to
// a bare JSON number when the text is one, otherwise to a JSON string.
type Number string

// Float returns the numeric value, or 0 for empty or unparsable text.
func (n Number) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}

// Int returns the value truncated toward zero.
func (n Number) Int() int {
	return int(n.Float())
}

// IsZero reports whether the value is empty or numerically zero.
func (n Number) IsZero() bool {
	return n.Float() == 0
}

// NumberOf formats f without trailing zeros.
func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

func (n Number) MarshalJSON() ([]byte, error) {
	s := string(n)
	if isNumberLiteral(s) {
		return []byte(s), nil
	}

	return json.Marshal(s)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}

		*n = Number(s)
	case isNumberLiteral(string(data)):
		*n = Number(data)
	default:
		return errNumberType
	}

	return nil
}

func isNumberLiteral(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}

	_, err := strconv.ParseFloat(s, 64)

	return err == nil && json.Valid([]byte(s))
}
