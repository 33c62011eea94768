package model

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// Metadata is the identity-provider-owned profile attached to an account.
// Role is free-form in storage; the access policy collapses anything that is
// not "employee" to customer at read time.
type Metadata struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
}

// Identity is a verified caller. It is only ever produced by the identity
// provider from a validated token, never from request payloads.
type Identity struct {
	ID       string
	Email    string
	Metadata Metadata
}
