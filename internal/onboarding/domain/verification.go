package domain

import "time"

// VerificationStatus 审核状态
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Verification 保安资质审核记录，每个申请人一行，按 guard_id upsert
type Verification struct {
	GuardID            string             `json:"guard_id"`
	LegalName          string             `json:"legal_name"`
	DateOfBirth        string             `json:"date_of_birth"`
	Phone              string             `json:"phone"`
	Address            string             `json:"address"`
	IDPhotoFrontURL    string             `json:"id_photo_front_url"`
	IDPhotoBackURL     string             `json:"id_photo_back_url"`
	SelfiePhotoURL     string             `json:"selfie_photo_url"`
	LicenseNumber      string             `json:"license_number"`
	LicenseState       string             `json:"license_state"`
	LicenseExpiration  string             `json:"license_expiration"`
	LicensePhotoURL    string             `json:"license_photo_url"`
	YearsExperience    int                `json:"years_experience"`
	Skills             []string           `json:"skills"`
	Certifications     []string           `json:"certifications"`
	Languages          []string           `json:"languages"`
	AvailabilityDays   []string           `json:"availability_days"`
	AvailabilityShifts []string           `json:"availability_shifts"`
	ServiceRadiusMiles *int               `json:"service_radius_miles"`
	ShortBio           string             `json:"short_bio"`
	ConsentBackground  bool               `json:"consent_to_background_check"`
	ConsentDrugTest    bool               `json:"consent_to_drug_test"`
	ConsentTerms       bool               `json:"consent_to_terms"`
	Status             VerificationStatus `json:"status"`
	SubmittedAt        time.Time          `json:"submitted_at"`
}

// 药检同意项暂无对应 UI 控件，提交时固定为 true，等待产品补充真实采集
const drugTestConsentPlaceholder = true

// BuildVerification 从表单与已上传的文档 URL 组装审核载荷
func BuildVerification(guardID string, form *ApplicationForm, docs UploadedDocuments, now time.Time) *Verification {
	return &Verification{
		GuardID:            guardID,
		LegalName:          form.FullLegalName(),
		DateOfBirth:        form.DOB,
		Phone:              form.Phone,
		Address:            form.FullAddress(),
		IDPhotoFrontURL:    docs.IDFrontURL,
		IDPhotoBackURL:     docs.IDBackURL,
		SelfiePhotoURL:     docs.SelfieURL,
		LicenseNumber:      form.LicenseNumber,
		LicenseState:       form.LicenseState,
		LicenseExpiration:  form.LicenseExpiry,
		LicensePhotoURL:    docs.LicenseURL,
		YearsExperience:    form.ExperienceYearsInt(),
		Skills:             form.Skills,
		Certifications:     form.Certifications,
		Languages:          form.Languages,
		AvailabilityDays:   form.AvailableDays,
		AvailabilityShifts: form.PreferredShifts,
		ServiceRadiusMiles: form.ServiceRadiusMiles(),
		ShortBio:           form.Bio,
		ConsentBackground:  form.ConsentBackground,
		ConsentDrugTest:    drugTestConsentPlaceholder,
		ConsentTerms:       form.ConsentTerms,
		Status:             VerificationPending,
		SubmittedAt:        now,
	}
}

// UploadedDocuments 四份证件上传后的访问 URL
type UploadedDocuments struct {
	IDFrontURL string
	IDBackURL  string
	SelfieURL  string
	LicenseURL string
}
