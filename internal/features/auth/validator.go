package auth

import (
	"errors"
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,30}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9\- ]{7,20}$`)
)

// ValidateRegister checks registration input beyond binding tags
func ValidateRegister(req *RegisterRequest) error {
	if !emailPattern.MatchString(req.Email) {
		return errors.New("invalid email address")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !usernamePattern.MatchString(req.Username) {
		return errors.New("username must be 3-30 characters (letters, digits, dot, dash, underscore)")
	}
	if len(req.DisplayName) > 100 {
		return errors.New("display name too long")
	}
	return nil
}

// ValidateUpdateProfile checks profile edit input
func ValidateUpdateProfile(req *UpdateProfileRequest) error {
	if req.PhoneNumber != "" && !phonePattern.MatchString(req.PhoneNumber) {
		return errors.New("invalid phone number")
	}
	return nil
}
