package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidLicenseNumber(t *testing.T) {
	valid := []string{
		"12345678",
		"A12345678",
		"12345678A",
		"1234A5678",
		"a12345678",
	}
	for _, v := range valid {
		assert.True(t, ValidLicenseNumber(v), "expected %q to be valid", v)
	}

	invalid := []string{
		"",
		"1234567",
		"123456789",
		"AB1234567",
		"A1234567",
		"A1234567B",
		"12345678 ",
		"1234-5678",
		"ABCDEFGHI",
	}
	for _, v := range invalid {
		assert.False(t, ValidLicenseNumber(v), "expected %q to be invalid", v)
	}
}

func validForm() *ApplicationForm {
	return &ApplicationForm{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		Phone:             "5551234567",
		DOB:               "1990-04-12",
		Street:            "12 Main St",
		City:              "Austin",
		State:             "TX",
		Zip:               "78701",
		LicenseNumber:     "12345678",
		LicenseState:      "TX",
		LicenseExpiry:     "2027-01-01",
		ExperienceYears:   "3-5",
		Skills:            []string{"Access Control"},
		AvailableDays:     []string{"Monday"},
		PreferredShifts:   []string{"Morning (Day)"},
		ConsentBackground: true,
		ConsentTerms:      true,
	}
}

func TestValidateStepAllStepsPass(t *testing.T) {
	form := validForm()
	for step := FirstStep; step <= LastStep; step++ {
		require.Empty(t, ValidateStep(step, form), "step %d", step)
	}
}

func TestValidateStepPersonalInfo(t *testing.T) {
	form := validForm()
	form.FirstName = "J"
	form.Email = "not-an-email"
	form.Zip = "787"

	errs := ValidateStep(StepPersonalInfo, form)
	require.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"firstName", "email", "zip"}, fields)
}

func TestValidateStepIDVerificationNeverBlocks(t *testing.T) {
	// 附件缺失不阻塞离开第 2 步
	assert.Empty(t, ValidateStep(StepIDVerification, &ApplicationForm{}))
}

func TestValidateStepSecurityLicense(t *testing.T) {
	form := validForm()
	form.LicenseNumber = "A1234567B"

	errs := ValidateStep(StepSecurityLicense, form)
	require.Len(t, errs, 1)
	assert.Equal(t, "licenseNumber", errs[0].Field)

	form.LicenseNumber = ""
	errs = ValidateStep(StepSecurityLicense, form)
	require.Len(t, errs, 1)
	assert.Equal(t, "License number is required", errs[0].Message)
}

func TestValidateStepReviewRequiresBothConsents(t *testing.T) {
	form := validForm()
	form.ConsentBackground = false
	form.ConsentTerms = false

	errs := ValidateStep(StepReviewSubmit, form)
	require.Len(t, errs, 2)
}

func TestQuickApplicationValidate(t *testing.T) {
	app := &QuickApplication{
		FirstName:     "Jane",
		MiddleName:    "Q",
		LastName:      "Doe",
		LicenseNumber: "12345678A",
		Email:         "jane@example.com",
	}
	require.Empty(t, app.Validate())

	app.MiddleName = ""
	app.LicenseNumber = "bogus"
	errs := app.Validate()
	require.Len(t, errs, 2)
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "Invalid email address"},
	}
	assert.Equal(t, "email: Invalid email address", errs.Error())
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
}
