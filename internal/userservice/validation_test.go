package userservice

import (
	"testing"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{email: "", valid: false},
		{email: "a", valid: false},
		{email: "a@", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.com", valid: true},
		{email: "first.last+tag@example.co.uk", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		password string
		valid    bool
	}{
		{password: "", valid: false},
		{password: "abc", valid: false},
		{password: "abcde", valid: false},
		{password: "abcdef", valid: true},
		{password: "passw0rd@#", valid: true},
		{password: "has spaces here", valid: false},
		{password: "way-too-long-password-over-thirty-characters", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	testCases := []struct {
		name  string
		valid bool
	}{
		{name: "", valid: false},
		{name: "Jane", valid: true},
		{name: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateName(v, tc.name, "first_name")
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}
