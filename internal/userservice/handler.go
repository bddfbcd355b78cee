package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

var ErrAuthenticationFailure = errors.New("invalid authentication credentials")

func NewUserService(db *sql.DB, mb common.MessageProducer, tokens *TokenManager) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		tokens: tokens,
	}
}

// Register creates a new user account and publishes a user.registered event
// for the mail pipeline.
func (s *UserService) Register(ctx context.Context, email, firstName, lastName, password string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validateName(v, firstName, "firstName")
	validateName(v, lastName, "lastName")
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	data := struct {
		Email     string
		FirstName string
	}{
		Email:     u.Email,
		FirstName: u.FirstName,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	if err := s.mb.Publish(ctx, eventData, common.UserRegisteredKey, common.UserExchange); err != nil {
		return nil, err
	}

	return &u, nil
}

// Login verifies the credentials and issues a signed bearer token carrying
// the identity claims. Unknown email and wrong password are reported the
// same way.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *User, error) {
	v := common.NewValidator()
	v.Check(email != "", "email", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return "", nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return "", nil, ErrAuthenticationFailure
		default:
			return "", nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrAuthenticationFailure
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// VerifyToken resolves a bearer token into its identity claims without
// touching the database.
func (s *UserService) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
