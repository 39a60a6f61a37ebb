package workflow

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names as they appear in identity tokens
const (
	RoleClient   = "client"
	RoleAgency   = "agency"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Actor is the verified caller of a workflow operation. The set of
// implementations is closed: Client, Agency, Employee and Admin.
type Actor interface {
	ID() primitive.ObjectID
	Role() string
	actor()
}

// Client owns advertisements and performs the second review stage
type Client struct{ AccountID primitive.ObjectID }

// Agency submits and owns applications
type Agency struct{ AccountID primitive.ObjectID }

// Employee performs the first review stage
type Employee struct{ AccountID primitive.ObjectID }

// Admin has every employee capability
type Admin struct{ AccountID primitive.ObjectID }

func (a Client) ID() primitive.ObjectID   { return a.AccountID }
func (a Agency) ID() primitive.ObjectID   { return a.AccountID }
func (a Employee) ID() primitive.ObjectID { return a.AccountID }
func (a Admin) ID() primitive.ObjectID    { return a.AccountID }

func (Client) Role() string   { return RoleClient }
func (Agency) Role() string   { return RoleAgency }
func (Employee) Role() string { return RoleEmployee }
func (Admin) Role() string    { return RoleAdmin }

func (Client) actor()   {}
func (Agency) actor()   {}
func (Employee) actor() {}
func (Admin) actor()    {}

// NewActor builds the actor variant for a role string and a hex account id
func NewActor(id, role string) (Actor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid actor id", ErrNotAuthorized)
	}
	switch role {
	case RoleClient:
		return Client{AccountID: oid}, nil
	case RoleAgency:
		return Agency{AccountID: oid}, nil
	case RoleEmployee:
		return Employee{AccountID: oid}, nil
	case RoleAdmin:
		return Admin{AccountID: oid}, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrNotAuthorized, role)
}

// isStaff reports whether the actor may perform employee reviews
func isStaff(actor Actor) bool {
	switch actor.(type) {
	case Employee, Admin:
		return true
	}
	return false
}
