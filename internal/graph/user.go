package graph

import (
	"fmt"
	"math"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/graph-gophers/graphql-go"
)

// UserArgs are the twelve required arguments of addUser.
type UserArgs struct {
	FirstName string
	LastName  string
	Email     string
	Age       int32
	Phone     string
	Website   string
	Company   string
	Username  string
	Password  string
	Role      string
	Status    bool
	Created   string
}

func (a UserArgs) fields() (user.Fields, error) {
	created, err := user.ParseCreated(a.Created)
	if err != nil {
		return user.Fields{}, err
	}

	return user.Fields{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Age:       int(a.Age),
		Phone:     a.Phone,
		Website:   a.Website,
		Company:   a.Company,
		Username:  a.Username,
		Password:  a.Password,
		Role:      a.Role,
		Status:    user.BoolPtr(a.Status),
		Created:   created,
	}, nil
}

// EditUserArgs are the arguments of editUser: the id plus every field.
type EditUserArgs struct {
	ID        graphql.ID
	FirstName string
	LastName  string
	Email     string
	Age       int32
	Phone     string
	Website   string
	Company   string
	Username  string
	Password  string
	Role      string
	Status    bool
	Created   string
}

func (a EditUserArgs) userArgs() UserArgs {
	return UserArgs{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Age:       a.Age,
		Phone:     a.Phone,
		Website:   a.Website,
		Company:   a.Company,
		Username:  a.Username,
		Password:  a.Password,
		Role:      a.Role,
		Status:    a.Status,
		Created:   a.Created,
	}
}

type UserResolver struct {
	u user.User
}

func (r *UserResolver) ID() *graphql.ID {
	id := graphql.ID(r.u.ID)
	return &id
}

func (r *UserResolver) FirstName() *string { return &r.u.FirstName }
func (r *UserResolver) LastName() *string  { return &r.u.LastName }
func (r *UserResolver) Email() *string     { return &r.u.Email }
func (r *UserResolver) Phone() *string     { return &r.u.Phone }
func (r *UserResolver) Website() *string   { return &r.u.Website }
func (r *UserResolver) Company() *string   { return &r.u.Company }
func (r *UserResolver) Username() *string  { return &r.u.Username }
func (r *UserResolver) Password() *string  { return &r.u.Password }
func (r *UserResolver) Role() *string      { return &r.u.Role }
func (r *UserResolver) Status() *bool      { return r.u.Status }

// Age fails the field rather than wrapping a stored value that GraphQL Int
// cannot carry.
func (r *UserResolver) Age() (*int32, error) {
	if r.u.Age < math.MinInt32 || r.u.Age > math.MaxInt32 {
		return nil, fmt.Errorf("age %d is outside the Int range", r.u.Age)
	}

	age := int32(r.u.Age)
	return &age, nil
}

func (r *UserResolver) Created() *string {
	if r.u.Created.IsZero() {
		return nil
	}

	s := user.FormatCreated(r.u.Created)
	return &s
}
