package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLength counts runes, not bytes.
func MaxLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return fmt.Errorf("%s is too long (max %d characters)", field, max)
	}
	return nil
}

// Email validates format and length using net/mail (RFC 5322).
func Email(email string) error {
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email address is too long (max 254 characters)")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address format")
	}
	return nil
}
