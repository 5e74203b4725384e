package main

import (
	"context"
	"time"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

var demoEmployees = []domain.NewEmployee{
	{EmployeeID: "EMP-1001", FullName: "Amara Okafor", Email: "amara.okafor@company.com", Department: string(domain.DeptEngineering)},
	{EmployeeID: "EMP-1002", FullName: "Lucas Moreau", Email: "lucas.moreau@company.com", Department: string(domain.DeptProduct)},
	{EmployeeID: "EMP-1003", FullName: "Priya Raman", Email: "priya.raman@company.com", Department: string(domain.DeptDesign)},
	{EmployeeID: "EMP-1004", FullName: "Tomás Herrera", Email: "tomas.herrera@company.com", Department: string(domain.DeptMarketing)},
	{EmployeeID: "EMP-1005", FullName: "Hana Sato", Email: "hana.sato@company.com", Department: string(domain.DeptHR)},
}

// seedDemo fills an empty store with sample employees and marks the first
// one present yesterday so the history panel has something to show.
func seedDemo(ctx context.Context, store ports.Store, clk clock.Clock) error {
	existing, err := store.Employees().List(ctx, ports.Query{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	var first *domain.Employee
	for _, in := range demoEmployees {
		e, err := store.Employees().Insert(ctx, in)
		if err != nil {
			return err
		}
		if first == nil {
			first = e
		}
	}

	yesterday := clk.Now().Add(-24 * time.Hour).Format(domain.DateLayout)
	_, err = store.Attendance().Insert(ctx, domain.NewAttendance{
		EmployeeID: first.ID,
		Date:       yesterday,
		Status:     domain.StatusPresent,
	})
	return err
}
