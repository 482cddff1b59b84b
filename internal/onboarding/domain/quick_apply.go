package domain

import (
	"strings"
	"time"
)

// QuickApplication 单页快速申请记录
type QuickApplication struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate 快速申请的完整校验
func (a *QuickApplication) Validate() ValidationErrors {
	var errs ValidationErrors

	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if len(strings.TrimSpace(a.FirstName)) < 2 {
		add("firstName", "First name is required")
	}
	if len(strings.TrimSpace(a.MiddleName)) < 1 {
		add("middleName", "Middle name is required")
	}
	if len(strings.TrimSpace(a.LastName)) < 2 {
		add("lastName", "Last name is required")
	}
	if a.LicenseNumber == "" {
		add("licenseNumber", "License number is required")
	} else if !ValidLicenseNumber(a.LicenseNumber) {
		add("licenseNumber", "Enter a valid license number (8 digits, or 1 letter + 8 digits).")
	}
	if a.Email == "" {
		add("email", "Email is required")
	} else if !ValidEmail(a.Email) {
		add("email", "Invalid email address")
	}

	return errs
}
