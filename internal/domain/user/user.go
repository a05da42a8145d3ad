package user

import (
	"errors"
	"reflect"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user id")
)

// Fields are the twelve business fields of a user. Every add and edit carries all of them.
type Fields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Company   string `json:"company"`
	Username  string `json:"username"`
	Password  string `json:"password"` // stored as given
	Role      string `json:"role"`
	// Status is nil when the stored value cannot be read as a boolean.
	Status  *bool     `json:"status"`
	Created time.Time `json:"created"`
}

type User struct {
	ID string `json:"id"`
	Fields
}

// FieldNames returns the wire names of the business fields in declaration order.
func FieldNames() []string {
	t := reflect.TypeOf(Fields{})
	names := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		names = append(names, name)
	}

	return names
}

func BoolPtr(b bool) *bool {
	return &b
}
