package repo

import (
	"log/slog"
	"time"

	"github.com/geocoder89/usergraph/internal/domain/user"
)

// Document is the JSON shape written by the key-value and JSONB backends.
// Status is left untyped, the same as in the mongo collection.
type Document struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	Company   string    `json:"company"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Status    any       `json:"status"`
	Created   time.Time `json:"created"`
}

func NewDocument(f user.Fields) Document {
	var status any
	if f.Status != nil {
		status = *f.Status
	}

	return Document{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Age:       f.Age,
		Phone:     f.Phone,
		Website:   f.Website,
		Company:   f.Company,
		Username:  f.Username,
		Password:  f.Password,
		Role:      f.Role,
		Status:    status,
		Created:   f.Created,
	}
}

func (d Document) User(id string) user.User {
	status := user.CoerceStatus(d.Status)
	if status == nil && d.Status != nil {
		slog.Default().Warn("stored status is not a boolean", "user_id", id, "status", d.Status)
	}

	return user.User{
		ID: id,
		Fields: user.Fields{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Age:       d.Age,
			Phone:     d.Phone,
			Website:   d.Website,
			Company:   d.Company,
			Username:  d.Username,
			Password:  d.Password,
			Role:      d.Role,
			Status:    status,
			Created:   d.Created,
		},
	}
}
