package domain

// Step 入职流程步骤
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepIDVerification
	StepSecurityLicense
	StepSkillsExperience
	StepAvailability
	StepReviewSubmit
)

// FirstStep/LastStep 步骤边界
const (
	FirstStep = StepPersonalInfo
	LastStep  = StepReviewSubmit
)

// Clamp 将步骤收敛到合法区间 [1,6]
func (s Step) Clamp() Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

// Valid 步骤是否在合法区间内
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal_info"
	case StepIDVerification:
		return "id_verification"
	case StepSecurityLicense:
		return "security_license"
	case StepSkillsExperience:
		return "skills_experience"
	case StepAvailability:
		return "availability"
	case StepReviewSubmit:
		return "review_submit"
	default:
		return "unknown"
	}
}

// 表单选项清单，与产品文案一致
var (
	SkillOptions = []string{
		"Unarmed Combat", "Armed Certified", "Crowd Control",
		"Access Control", "CCTV Monitoring", "Event Security",
		"Executive Protection", "Patrol Driver", "First Responder",
	}

	CertificationOptions = []string{
		"CPR Certified", "First Aid", "Baton", "Pepper Spray", "Taser", "Fire Guard",
	}

	LanguageOptions = []string{
		"English", "Spanish", "French", "Mandarin", "ASL",
	}

	DayOptions = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}

	ShiftOptions = []string{
		"Morning (Day)", "Swing (Evening)", "Graveyard (Night)", "On-Demand / Flexible",
	}

	ExperienceOptions = []string{"0-1", "1-3", "3-5", "5-10", "10+"}
)
