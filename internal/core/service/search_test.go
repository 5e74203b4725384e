package service

import (
	"strings"
	"testing"

	"github.com/hrmslite/hrms/internal/core/domain"
)

func TestMatchesSearch(t *testing.T) {
	e := employee("1", "EMP-1001", "Jane Lee", "Engineering")

	cases := []struct {
		term string
		want bool
	}{
		{"", true},
		{"jane", true},
		{"LEE", true},
		{"emp-10", true},
		{"engin", true},
		{"Product", false},
		{"jane@", false}, // email is not searched
		{"xyz", false},
	}
	for _, tc := range cases {
		if got := MatchesSearch(e, tc.term); got != tc.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestFilterEmployees_ExactlyMatchingSet(t *testing.T) {
	employees := []domain.Employee{
		employee("1", "EMP-1001", "Jane Lee", "Engineering"),
		employee("2", "EMP-1002", "Omar Haddad", "Design"),
		employee("3", "HR-7", "Li Wei", "HR"),
		employee("4", "EMP-1004", "Marta Gomez", "Marketing"),
	}
	terms := []string{"", "e", "EMP", "hr", "design", "gomez", "nope", "1002", "li"}

	for _, term := range terms {
		got := FilterEmployees(employees, term)
		in := make(map[domain.Key]bool, len(got))
		for _, e := range got {
			in[e.ID] = true
		}
		for _, e := range employees {
			needle := strings.ToLower(term)
			want := strings.Contains(strings.ToLower(e.FullName), needle) ||
				strings.Contains(strings.ToLower(e.EmployeeID), needle) ||
				strings.Contains(strings.ToLower(e.Department), needle)
			if in[e.ID] != want {
				t.Errorf("term %q: employee %s included=%v, want %v", term, e.EmployeeID, in[e.ID], want)
			}
		}
	}
}

func TestFilterEmployees_PreservesOrder(t *testing.T) {
	employees := []domain.Employee{
		employee("3", "EMP-3", "Cara", "Design"),
		employee("2", "EMP-2", "Bo", "Design"),
		employee("1", "EMP-1", "Al", "Product"),
	}
	got := FilterEmployees(employees, "design")
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
