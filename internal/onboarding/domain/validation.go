package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError 单字段校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors 字段级校验错误集合
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	licenseDigits       = regexp.MustCompile(`^\d{8}$`)
	licenseAlphanumeric = regexp.MustCompile(`^[A-Za-z0-9]{9}$`)
)

// ValidEmail 校验邮箱格式
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidLicenseNumber 执照号规则：恰好 8 位数字，
// 或恰好 9 位字母数字且包含恰好 1 个字母和 8 个数字
func ValidLicenseNumber(value string) bool {
	if licenseDigits.MatchString(value) {
		return true
	}
	if !licenseAlphanumeric.MatchString(value) {
		return false
	}
	letters, digits := 0, 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		default:
			letters++
		}
	}
	return letters == 1 && digits == 8
}

// ValidateStep 校验离开某一步骤前该步骤的必填字段。
// 规则与最终提交一致，仅限该步骤范围内的字段。
func ValidateStep(step Step, form *ApplicationForm) ValidationErrors {
	var errs ValidationErrors

	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	switch step {
	case StepPersonalInfo:
		if len(strings.TrimSpace(form.FirstName)) < 2 {
			add("firstName", "First name is required")
		}
		if len(strings.TrimSpace(form.LastName)) < 2 {
			add("lastName", "Last name is required")
		}
		if !ValidEmail(form.Email) {
			add("email", "Invalid email address")
		}
		if len(form.Phone) < 10 {
			add("phone", "Valid phone number is required")
		}
		if form.DOB == "" {
			add("dob", "Date of birth is required")
		}
		if form.Street == "" {
			add("street", "Street address is required")
		}
		if form.City == "" {
			add("city", "City is required")
		}
		if len(form.State) < 2 {
			add("state", "State is required")
		}
		if len(form.Zip) < 5 {
			add("zip", "ZIP code is required")
		}

	case StepIDVerification:
		// 本步骤导航门不强制附件，最终载荷仍包含照片 URL。
		// 保持上游产品行为：空规则集。

	case StepSecurityLicense:
		if form.LicenseNumber == "" {
			add("licenseNumber", "License number is required")
		} else if !ValidLicenseNumber(form.LicenseNumber) {
			add("licenseNumber", "Enter a valid license number (8 digits, or 1 letter + 8 digits).")
		}
		if len(form.LicenseState) < 2 {
			add("licenseState", "Issuing state is required")
		}
		if form.LicenseExpiry == "" {
			add("licenseExpiry", "License expiration date is required")
		}

	case StepSkillsExperience:
		if form.ExperienceYears == "" {
			add("experienceYears", "Years of experience is required")
		}
		if len(form.Skills) == 0 {
			add("skills", "Select at least one skill")
		}

	case StepAvailability:
		if len(form.AvailableDays) == 0 {
			add("availableDays", "Select at least one available day")
		}
		if len(form.PreferredShifts) == 0 {
			add("preferredShifts", "Select at least one preferred shift")
		}

	case StepReviewSubmit:
		if !form.ConsentBackground {
			add("consentBackground", "Background check consent is required")
		}
		if !form.ConsentTerms {
			add("consentTerms", "You must agree to the terms of service")
		}
	}

	return errs
}
