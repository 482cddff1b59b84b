package mysql

import (
	"encoding/json"
	"time"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
)

// ProfileModel MySQL 申请人档案表映射
type ProfileModel struct {
	ID                    string     `gorm:"column:id;type:varchar(64);primaryKey"`
	Email                 string     `gorm:"column:email;type:varchar(255);index"`
	GuardStatus           string     `gorm:"column:guard_status;type:varchar(20);not null;default:'unset'"`
	OnboardingStep        int        `gorm:"column:guard_onboarding_step;default:1"`
	OnboardingCompletedAt *time.Time `gorm:"column:guard_onboarding_completed_at"`
	IsGuard               bool       `gorm:"column:is_guard;default:false"`
	Skills                string     `gorm:"column:skills;type:text"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// VerificationModel MySQL 资质审核表映射，每个申请人一行
type VerificationModel struct {
	GuardID            string    `gorm:"column:guard_id;type:varchar(64);primaryKey"`
	LegalName          string    `gorm:"column:legal_name;type:varchar(120)"`
	DateOfBirth        string    `gorm:"column:date_of_birth;type:varchar(20)"`
	Phone              string    `gorm:"column:phone;type:varchar(30)"`
	Address            string    `gorm:"column:address;type:varchar(255)"`
	IDPhotoFrontURL    string    `gorm:"column:id_photo_front_url;type:varchar(512)"`
	IDPhotoBackURL     string    `gorm:"column:id_photo_back_url;type:varchar(512)"`
	SelfiePhotoURL     string    `gorm:"column:selfie_photo_url;type:varchar(512)"`
	LicenseNumber      string    `gorm:"column:license_number;type:varchar(20)"`
	LicenseState       string    `gorm:"column:license_state;type:varchar(10)"`
	LicenseExpiration  string    `gorm:"column:license_expiration;type:varchar(20)"`
	LicensePhotoURL    string    `gorm:"column:license_photo_url;type:varchar(512)"`
	YearsExperience    int       `gorm:"column:years_experience;default:0"`
	Skills             string    `gorm:"column:skills;type:text"`
	Certifications     string    `gorm:"column:certifications;type:text"`
	Languages          string    `gorm:"column:languages;type:text"`
	AvailabilityDays   string    `gorm:"column:availability_days;type:text"`
	AvailabilityShifts string    `gorm:"column:availability_shifts;type:text"`
	ServiceRadiusMiles *int      `gorm:"column:service_radius_miles"`
	ShortBio           string    `gorm:"column:short_bio;type:text"`
	ConsentBackground  bool      `gorm:"column:consent_to_background_check"`
	ConsentDrugTest    bool      `gorm:"column:consent_to_drug_test"`
	ConsentTerms       bool      `gorm:"column:consent_to_terms"`
	Status             string    `gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	SubmittedAt        time.Time `gorm:"column:submitted_at"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (VerificationModel) TableName() string {
	return "guard_verifications"
}

// QuickApplicationModel MySQL 快速申请表映射
type QuickApplicationModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	FirstName     string    `gorm:"column:first_name;type:varchar(50);not null"`
	MiddleName    string    `gorm:"column:middle_name;type:varchar(50);not null"`
	LastName      string    `gorm:"column:last_name;type:varchar(50);not null"`
	LicenseNumber string    `gorm:"column:license_number;type:varchar(20);not null"`
	Email         string    `gorm:"column:email;type:varchar(255);index;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (QuickApplicationModel) TableName() string {
	return "guard_applications"
}

func marshalStrings(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil
	}
	return items
}

func toProfileModel(p *domain.Profile) *ProfileModel {
	if p == nil {
		return nil
	}
	return &ProfileModel{
		ID:                    p.ID,
		Email:                 p.Email,
		GuardStatus:           string(p.GuardStatus),
		OnboardingStep:        int(p.OnboardingStep),
		OnboardingCompletedAt: p.OnboardingCompletedAt,
		IsGuard:               p.IsGuard,
		Skills:                marshalStrings(p.Skills),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func toProfile(m *ProfileModel) *domain.Profile {
	if m == nil {
		return nil
	}
	return &domain.Profile{
		ID:                    m.ID,
		Email:                 m.Email,
		GuardStatus:           domain.GuardStatus(m.GuardStatus),
		OnboardingStep:        domain.Step(m.OnboardingStep),
		OnboardingCompletedAt: m.OnboardingCompletedAt,
		IsGuard:               m.IsGuard,
		Skills:                unmarshalStrings(m.Skills),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toVerificationModel(v *domain.Verification) *VerificationModel {
	if v == nil {
		return nil
	}
	return &VerificationModel{
		GuardID:            v.GuardID,
		LegalName:          v.LegalName,
		DateOfBirth:        v.DateOfBirth,
		Phone:              v.Phone,
		Address:            v.Address,
		IDPhotoFrontURL:    v.IDPhotoFrontURL,
		IDPhotoBackURL:     v.IDPhotoBackURL,
		SelfiePhotoURL:     v.SelfiePhotoURL,
		LicenseNumber:      v.LicenseNumber,
		LicenseState:       v.LicenseState,
		LicenseExpiration:  v.LicenseExpiration,
		LicensePhotoURL:    v.LicensePhotoURL,
		YearsExperience:    v.YearsExperience,
		Skills:             marshalStrings(v.Skills),
		Certifications:     marshalStrings(v.Certifications),
		Languages:          marshalStrings(v.Languages),
		AvailabilityDays:   marshalStrings(v.AvailabilityDays),
		AvailabilityShifts: marshalStrings(v.AvailabilityShifts),
		ServiceRadiusMiles: v.ServiceRadiusMiles,
		ShortBio:           v.ShortBio,
		ConsentBackground:  v.ConsentBackground,
		ConsentDrugTest:    v.ConsentDrugTest,
		ConsentTerms:       v.ConsentTerms,
		Status:             string(v.Status),
		SubmittedAt:        v.SubmittedAt,
	}
}

func toVerification(m *VerificationModel) *domain.Verification {
	if m == nil {
		return nil
	}
	return &domain.Verification{
		GuardID:            m.GuardID,
		LegalName:          m.LegalName,
		DateOfBirth:        m.DateOfBirth,
		Phone:              m.Phone,
		Address:            m.Address,
		IDPhotoFrontURL:    m.IDPhotoFrontURL,
		IDPhotoBackURL:     m.IDPhotoBackURL,
		SelfiePhotoURL:     m.SelfiePhotoURL,
		LicenseNumber:      m.LicenseNumber,
		LicenseState:       m.LicenseState,
		LicenseExpiration:  m.LicenseExpiration,
		LicensePhotoURL:    m.LicensePhotoURL,
		YearsExperience:    m.YearsExperience,
		Skills:             unmarshalStrings(m.Skills),
		Certifications:     unmarshalStrings(m.Certifications),
		Languages:          unmarshalStrings(m.Languages),
		AvailabilityDays:   unmarshalStrings(m.AvailabilityDays),
		AvailabilityShifts: unmarshalStrings(m.AvailabilityShifts),
		ServiceRadiusMiles: m.ServiceRadiusMiles,
		ShortBio:           m.ShortBio,
		ConsentBackground:  m.ConsentBackground,
		ConsentDrugTest:    m.ConsentDrugTest,
		ConsentTerms:       m.ConsentTerms,
		Status:             domain.VerificationStatus(m.Status),
		SubmittedAt:        m.SubmittedAt,
	}
}

func toQuickApplicationModel(a *domain.QuickApplication) *QuickApplicationModel {
	if a == nil {
		return nil
	}
	return &QuickApplicationModel{
		ID:            a.ID,
		FirstName:     a.FirstName,
		MiddleName:    a.MiddleName,
		LastName:      a.LastName,
		LicenseNumber: a.LicenseNumber,
		Email:         a.Email,
		CreatedAt:     a.CreatedAt,
	}
}

func toQuickApplication(m *QuickApplicationModel) *domain.QuickApplication {
	if m == nil {
		return nil
	}
	return &domain.QuickApplication{
		ID:            m.ID,
		FirstName:     m.FirstName,
		MiddleName:    m.MiddleName,
		LastName:      m.LastName,
		LicenseNumber: m.LicenseNumber,
		Email:         m.Email,
		CreatedAt:     m.CreatedAt,
	}
}
