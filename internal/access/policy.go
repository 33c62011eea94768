// Package access derives caller roles from identity-provider metadata and
// gates staff-only operations. Role never comes from request payloads, so a
// client cannot promote itself by editing a request body.
package access

import (
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
)

// Role collapses the stored metadata role to the closed customer/employee
// tag. Anything that is not exactly "employee" (including junk written by
// older tooling) reads as customer.
func Role(md model.Metadata) string {
	if md.Role == model.RoleEmployee {
		return model.RoleEmployee
	}
	return model.RoleCustomer
}

// RequireEmployee gates staff-only operations.
func RequireEmployee(identity model.Identity) error {
	if Role(identity.Metadata) != model.RoleEmployee {
		return apperrors.Forbidden("Employee role required")
	}
	return nil
}
