package handlers

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Schema bounds mirrored from the persistence layer.
// Bounds count characters, not bytes.
const (
	usernameMinLen = 3
	usernameMaxLen = 25
	passwordMinLen = 8
	passwordMaxLen = 32
	fullNameMaxLen = 50
	emailMaxLen    = 254
	titleMinLen    = 3
	titleMaxLen    = 150
	textMinLen     = 3
	textMaxLen     = 1000
)

func validateUsername(v string) error {
	if n := utf8.RuneCountInString(v); n < usernameMinLen || n > usernameMaxLen {
		return fmt.Errorf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	for _, r := range v {
		if !isAlnum(r) {
			return errors.New("username must be alphanumeric")
		}
	}
	return nil
}

func validatePassword(v string) error {
	if n := utf8.RuneCountInString(v); n < passwordMinLen || n > passwordMaxLen {
		return fmt.Errorf("password must be between %d and %d characters", passwordMinLen, passwordMaxLen)
	}
	return nil
}

func validateFullName(v string) error {
	if utf8.RuneCountInString(v) > fullNameMaxLen {
		return fmt.Errorf("full name must be at most %d characters", fullNameMaxLen)
	}
	return nil
}

func validateEmail(v string) error {
	if v == "" || utf8.RuneCountInString(v) > emailMaxLen || !strings.Contains(v, "@") {
		return errors.New("invalid email")
	}
	return nil
}

func validateTitle(v string) error {
	if n := utf8.RuneCountInString(v); n < titleMinLen || n > titleMaxLen {
		return fmt.Errorf("title must be between %d and %d characters", titleMinLen, titleMaxLen)
	}
	return nil
}

func validateText(v string) error {
	if n := utf8.RuneCountInString(v); n < textMinLen || n > textMaxLen {
		return fmt.Errorf("text must be between %d and %d characters", textMinLen, textMaxLen)
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
