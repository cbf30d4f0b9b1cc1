package models

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// TypedValue coerces the raw stored value according to the setting's
// declared type. Unknown types fall back to the raw string.
func (s *Setting) TypedValue() (interface{}, error) {
	switch s.Type {
	case SettingTypeInteger:
		return strconv.Atoi(s.Value)
	case SettingTypeDecimal:
		return decimal.NewFromString(s.Value)
	case SettingTypeBoolean:
		return strconv.ParseBool(s.Value)
	case SettingTypeJSON:
		var v interface{}
		err := json.Unmarshal([]byte(s.Value), &v)
		return v, err
	default:
		return s.Value, nil
	}
}

// Int returns the value as an integer, or def when the value cannot
// be parsed as one.
func (s *Setting) Int(def int) int {
	v, err := strconv.Atoi(s.Value)
	if err != nil {
		return def
	}
	return v
}

// Decimal returns the value as a decimal, or def when it cannot be
// parsed as one.
func (s *Setting) Decimal(def decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(s.Value)
	if err != nil {
		return def
	}
	return v
}

// Bool returns the value as a boolean, or def when it cannot be
// parsed as one.
func (s *Setting) Bool(def bool) bool {
	v, err := strconv.ParseBool(s.Value)
	if err != nil {
		return def
	}
	return v
}
