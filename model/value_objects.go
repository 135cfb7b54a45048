// Package model provides value objects for API parameter validation.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectName represents a project name value object.
type ProjectName struct {
	value string
}

// NewProjectName creates a new project name value object.
func NewProjectName(name string) (*ProjectName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("project name is required")
	}
	return &ProjectName{value: name}, nil
}

// String returns the project name string.
func (p *ProjectName) String() string {
	return p.value
}

// CaseName represents a case name value object.
type CaseName struct {
	value string
}

// NewCaseName creates a new case name value object.
func NewCaseName(name string) (*CaseName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("case name is required")
	}
	if name == Unassigned {
		return nil, NewValidationError(fmt.Sprintf("case name %q is reserved", Unassigned))
	}
	return &CaseName{value: name}, nil
}

// String returns the case name string.
func (c *CaseName) String() string {
	return c.value
}

// Amount is a non-negative money amount decoded from either a JSON number or
// a numeric string. Form posts send numbers as strings, and an empty string
// means the field was left blank.
type Amount struct {
	value int64
	set   bool
}

// NewAmount parses a whole-unit amount. Empty input yields an unset amount.
func NewAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// 表計算由来の "5000.0" のような値は整数であれば受け付ける
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return Amount{}, NewValidationError(fmt.Sprintf("invalid amount %q: must be a whole number", s))
		}
		v = int64(f)
	}
	if v < 0 {
		return Amount{}, NewValidationError(fmt.Sprintf("invalid amount %q: must not be negative", s))
	}
	return Amount{value: v, set: true}, nil
}

// AmountOf wraps an already validated value.
func AmountOf(v int64) Amount {
	return Amount{value: v, set: true}
}

// Int64 returns the amount, zero when unset.
func (a Amount) Int64() int64 {
	return a.value
}

// IsSet reports whether a value was provided.
func (a Amount) IsSet() bool {
	return a.set
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	v, err := NewAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(a.value, 10)), nil
}

// PaymentID represents a payment ID value object.
type PaymentID struct {
	value uuid.UUID
}

// NewPaymentID parses a payment ID. An empty string mints a new ID.
func NewPaymentID(idStr string) (*PaymentID, error) {
	if idStr == "" {
		return &PaymentID{value: uuid.New()}, nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, NewValidationError("invalid payment id: must be a UUID")
	}
	return &PaymentID{value: id}, nil
}

// String returns the canonical UUID string.
func (p *PaymentID) String() string {
	return p.value.String()
}

// PaymentDate represents a calendar date value object.
type PaymentDate struct {
	value time.Time
}

// NewPaymentDate parses a date in YYYY-MM-DD or RFC3339 form.
func NewPaymentDate(dateStr string) (*PaymentDate, error) {
	if dateStr == "" {
		return nil, NewValidationError("date is required")
	}
	t, err := parseDateTime(dateStr)
	if err != nil {
		return nil, NewValidationError("invalid date. Use ISO8601 format (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ)")
	}
	return &PaymentDate{value: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d *PaymentDate) String() string {
	return d.value.Format(DateLayout)
}

// parseDateTime parses date string with flexible format support.
func parseDateTime(dateStr string) (time.Time, error) {
	// Try date-only format (YYYY-MM-DD)
	if t, err := time.Parse(DateLayout, dateStr); err == nil {
		return t, nil
	}

	// Try RFC3339 format (with time)
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date")
}
