package access

import (
	"testing"

	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
)

func TestRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{name: "employee", role: "employee", want: model.RoleEmployee},
		{name: "customer", role: "customer", want: model.RoleCustomer},
		{name: "missing role defaults to customer", role: "", want: model.RoleCustomer},
		{name: "unknown role collapses to customer", role: "superadmin", want: model.RoleCustomer},
		{name: "case sensitive", role: "Employee", want: model.RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Role(model.Metadata{Role: tt.role})
			if got != tt.want {
				t.Errorf("Role() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireEmployee(t *testing.T) {
	employee := model.Identity{ID: "u1", Metadata: model.Metadata{Role: model.RoleEmployee}}
	if err := RequireEmployee(employee); err != nil {
		t.Fatalf("RequireEmployee(employee) = %v, want nil", err)
	}

	customer := model.Identity{ID: "u2", Metadata: model.Metadata{Name: "Alex"}}
	err := RequireEmployee(customer)
	if err == nil {
		t.Fatal("RequireEmployee(customer) = nil, want forbidden error")
	}
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("RequireEmployee(customer) code = %v, want %s", err, apperrors.CodeForbidden)
	}
}
