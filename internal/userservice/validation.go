package userservice

import (
	"regexp"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// PasswordRX matches 6 to 30 characters out of letters, digits, @ and #.
	PasswordRX = regexp.MustCompile("^[a-zA-Z0-9@#]{6,30}$")
)

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(v.CheckMatches(email, EmailRX), "email", "must be a valid email address")
}

func validateName(v *common.Validator, name, field string) {
	v.Check(name != "", field, "must be provided")
	v.Check(v.CheckStringLength(name, 1, 50), field, "must not be more than 50 characters long")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckMatches(password, PasswordRX), "password", "must be between 6 and 30 characters long and contain only letters, numbers, @ and #")
}
