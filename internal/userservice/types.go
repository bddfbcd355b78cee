package userservice

import (
	"database/sql"
	"time"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var AnonymousUser = User{}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Password  Password  `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAnonymous() bool {
	return u.ID == 0
}

// Name is the denormalized display name stamped onto blogs at creation.
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

type UserService struct {
	m      *UserModel
	mb     common.MessageProducer
	tokens *TokenManager
}

type UserModel struct {
	db *sql.DB
}
