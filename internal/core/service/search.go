package service

import (
	"strings"

	"github.com/hrmslite/hrms/internal/core/domain"
)

// MatchesSearch reports whether e's full name, business identifier or
// department contains term, ignoring case. An empty term matches everything.
func MatchesSearch(e domain.Employee, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.FullName), needle) ||
		strings.Contains(strings.ToLower(e.EmployeeID), needle) ||
		strings.Contains(strings.ToLower(e.Department), needle)
}

// FilterEmployees returns the employees matching term, preserving order.
func FilterEmployees(employees []domain.Employee, term string) []domain.Employee {
	out := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if MatchesSearch(e, term) {
			out = append(out, e)
		}
	}
	return out
}
