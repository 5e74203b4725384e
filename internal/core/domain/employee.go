package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Department is one of the fixed organisational units an employee belongs to.
type Department string

const (
	DeptEngineering Department = "Engineering"
	DeptProduct     Department = "Product"
	DeptDesign      Department = "Design"
	DeptMarketing   Department = "Marketing"
	DeptHR          Department = "HR"
)

// Departments lists every selectable department in display order.
var Departments = []Department{DeptEngineering, DeptProduct, DeptDesign, DeptMarketing, DeptHR}

// Key is the store's opaque record identifier. Hosted stores hand out either
// integers or strings (UUIDs, ObjectIDs); both decode into a Key.
type Key string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (k *Key) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*k = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = Key(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	*k = Key(n.String())
	return nil
}

// MarshalJSON writes canonical integers as numbers so integer foreign keys
// round-trip unchanged. Anything else, including digit strings with a leading
// zero, stays a string.
func (k Key) MarshalJSON() ([]byte, error) {
	s := string(k)
	if isCanonicalInt(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isCanonicalInt(s string) bool {
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return false
	}
	return s == "0" || s[0] != '0'
}

// Employee is a directory record. Created once, never mutated or deleted.
type Employee struct {
	ID         Key       `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEmployee is the insert payload for the employees collection.
type NewEmployee struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}
