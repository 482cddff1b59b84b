package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/utils"
)

// callLog 记录跨仓储的调用顺序
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

func (l *callLog) indexOf(name string) int {
	for i, c := range l.names() {
		if c == name {
			return i
		}
	}
	return -1
}

type fakeDrafts struct {
	log     *callLog
	drafts  map[string]*domain.Draft
	getErr  error
	saveErr error
	delErr  error
}

func newFakeDrafts(log *callLog) *fakeDrafts {
	return &fakeDrafts{log: log, drafts: map[string]*domain.Draft{}}
}

func (f *fakeDrafts) Save(ctx context.Context, draft *domain.Draft) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.drafts[draft.GuardID] = draft
	return nil
}

func (f *fakeDrafts) Get(ctx context.Context, guardID string) (*domain.Draft, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	draft, ok := f.drafts[guardID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return draft, nil
}

func (f *fakeDrafts) Delete(ctx context.Context, guardID string) error {
	f.log.record("draft.delete")
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.drafts, guardID)
	return nil
}

type fakeProfiles struct {
	log         *callLog
	profile     *domain.Profile
	getErr      error
	progressErr error
	submitErr   error
	submitted   *domain.Profile
	progressTo  domain.Step
}

func (f *fakeProfiles) Get(ctx context.Context, id string) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeProfiles) UpsertProgress(ctx context.Context, id string, step domain.Step, status domain.GuardStatus) error {
	f.log.record("profile.progress")
	if f.progressErr != nil {
		return f.progressErr
	}
	f.progressTo = step
	return nil
}

func (f *fakeProfiles) UpsertSubmitted(ctx context.Context, profile *domain.Profile) error {
	f.log.record("profile.submitted")
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = profile
	return nil
}

type fakeVerifications struct {
	log       *callLog
	upsertErr error
	saved     *domain.Verification
}

func (f *fakeVerifications) Upsert(ctx context.Context, verification *domain.Verification) error {
	f.log.record("verification.upsert")
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.saved = verification
	return nil
}

func (f *fakeVerifications) Get(ctx context.Context, guardID string) (*domain.Verification, error) {
	return f.saved, nil
}

type fakeApplications struct {
	saved *domain.QuickApplication
	err   error
}

func (f *fakeApplications) Save(ctx context.Context, app *domain.QuickApplication) error {
	if f.err != nil {
		return f.err
	}
	f.saved = app
	return nil
}

func (f *fakeApplications) Get(ctx context.Context, id int64) (*domain.QuickApplication, error) {
	return f.saved, nil
}

type fakeDocuments struct {
	log  *callLog
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeDocuments) Upload(ctx context.Context, key string, content []byte) (string, error) {
	f.log.record("document.upload")
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return "https://cdn.test/" + key, nil
}

type fakePublisher struct {
	submitted []*domain.ApplicationSubmittedEvent
	steps     []*domain.StepChangedEvent
	err       error
}

func (f *fakePublisher) PublishApplicationSubmitted(event *domain.ApplicationSubmittedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, event)
	return nil
}

func (f *fakePublisher) PublishStepChanged(event *domain.StepChangedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.steps = append(f.steps, event)
	return nil
}

type fixture struct {
	svc           *OnboardingService
	log           *callLog
	drafts        *fakeDrafts
	profiles      *fakeProfiles
	verifications *fakeVerifications
	applications  *fakeApplications
	documents     *fakeDocuments
	publisher     *fakePublisher
}

func newFixture() *fixture {
	log := &callLog{}
	f := &fixture{
		log:           log,
		drafts:        newFakeDrafts(log),
		profiles:      &fakeProfiles{log: log},
		verifications: &fakeVerifications{log: log},
		applications:  &fakeApplications{},
		documents:     &fakeDocuments{log: log},
		publisher:     &fakePublisher{},
	}
	f.svc = NewOnboardingService(
		f.drafts, f.profiles, f.verifications, f.applications,
		f.documents, f.publisher, utils.NewSnowflakeID(1), metrics.New("test"),
	)
	return f
}

func submittableForm() *domain.ApplicationForm {
	return &domain.ApplicationForm{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		Phone:             "5551234567",
		DOB:               "1990-04-12",
		Street:            "12 Main St",
		City:              "Austin",
		State:             "TX",
		Zip:               "78701",
		IDFront:           domain.DocumentInput{FileName: "front.jpg", Content: []byte{1}},
		IDBack:            domain.DocumentInput{FileName: "back.jpg", Content: []byte{2}},
		Selfie:            domain.DocumentInput{URL: "https://cdn.test/existing/selfie.jpg"},
		LicensePhoto:      domain.DocumentInput{FileName: "license.png", Content: []byte{3}},
		LicenseNumber:     "12345678",
		LicenseState:      "TX",
		LicenseExpiry:     "2027-01-01",
		ExperienceYears:   "3-5",
		Skills:            []string{"Access Control", "CCTV Monitoring"},
		AvailableDays:     []string{"Monday", "Friday"},
		PreferredShifts:   []string{"Morning (Day)"},
		ServiceRadius:     "25",
		ConsentBackground: true,
		ConsentTerms:      true,
	}
}

func TestResumeStateDraftWinsOverRemoteProgress(t *testing.T) {
	f := newFixture()
	form := submittableForm()
	f.drafts.drafts["g-1"] = domain.NewDraft("g-1", form, domain.StepAvailability)
	f.profiles.profile = &domain.Profile{
		ID:             "g-1",
		GuardStatus:    domain.StatusOnboarding,
		OnboardingStep: domain.StepSecurityLicense,
	}

	state, err := f.svc.ResumeState(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepAvailability, state.Step)
	assert.Same(t, form, state.Form)
	assert.False(t, state.Submitted)
}

func TestResumeStateSubmittedProfileShowsFinalStep(t *testing.T) {
	f := newFixture()
	f.profiles.profile = &domain.Profile{ID: "g-1", GuardStatus: domain.StatusPendingApproval}

	state, err := f.svc.ResumeState(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LastStep, state.Step)
	assert.True(t, state.Submitted)
	assert.Nil(t, state.Form)
}

func TestResumeStateRemoteProgress(t *testing.T) {
	f := newFixture()
	f.profiles.profile = &domain.Profile{
		ID:             "g-1",
		GuardStatus:    domain.StatusOnboarding,
		OnboardingStep: domain.StepSkillsExperience,
	}

	state, err := f.svc.ResumeState(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepSkillsExperience, state.Step)
}

func TestResumeStateFailsOpenToStepOne(t *testing.T) {
	f := newFixture()
	f.drafts.getErr = errors.New("redis down")
	f.profiles.getErr = errors.New("mysql down")

	state, err := f.svc.ResumeState(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FirstStep, state.Step)
	assert.False(t, state.Submitted)
}

func TestGoToStepSavesDraftAndSyncsProgress(t *testing.T) {
	f := newFixture()
	form := submittableForm()

	result, err := f.svc.GoToStep(context.Background(), "g-1", form, domain.StepSecurityLicense)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSecurityLicense, result.Step)
	assert.True(t, result.ProgressSynced)
	assert.Equal(t, domain.StepSecurityLicense, f.profiles.progressTo)

	draft, err := f.drafts.Get(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepSecurityLicense, draft.Step)
	require.Len(t, f.publisher.steps, 1)
	assert.Equal(t, domain.StepSecurityLicense, f.publisher.steps[0].ToStep)
}

func TestGoToStepProgressSyncFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.profiles.progressErr = errors.New("mysql down")

	result, err := f.svc.GoToStep(context.Background(), "g-1", submittableForm(), domain.StepIDVerification)
	require.NoError(t, err)
	assert.Equal(t, domain.StepIDVerification, result.Step)
	assert.False(t, result.ProgressSynced)

	// 草稿仍然落盘
	_, err = f.drafts.Get(context.Background(), "g-1")
	require.NoError(t, err)
}

func TestGoToStepClampsTarget(t *testing.T) {
	f := newFixture()

	result, err := f.svc.GoToStep(context.Background(), "g-1", nil, domain.Step(99))
	require.NoError(t, err)
	assert.Equal(t, domain.LastStep, result.Step)
}

func TestAdvanceBlocksOnValidation(t *testing.T) {
	f := newFixture()
	form := submittableForm()
	form.Email = "bogus"

	_, err := f.svc.Advance(context.Background(), "g-1", form, domain.StepPersonalInfo)
	require.Error(t, err)

	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)

	// 校验失败时既不落草稿也不同步进度
	assert.Empty(t, f.log.names())
}

func TestAdvanceMovesForward(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Advance(context.Background(), "g-1", submittableForm(), domain.StepPersonalInfo)
	require.NoError(t, err)
	assert.Equal(t, domain.StepIDVerification, result.Step)
}

func TestBackSkipsValidation(t *testing.T) {
	f := newFixture()

	// 空表单也能后退
	result, err := f.svc.Back(context.Background(), "g-1", &domain.ApplicationForm{}, domain.StepSecurityLicense)
	require.NoError(t, err)
	assert.Equal(t, domain.StepIDVerification, result.Step)
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture()
	form := submittableForm()
	f.drafts.drafts["g-1"] = domain.NewDraft("g-1", form, domain.LastStep)

	result, err := f.svc.Submit(context.Background(), "g-1", form)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionCompleted, result.Status)
	assert.Equal(t, "g-1", result.GuardID)

	calls := f.log.names()
	// 三份新附件上传，一份透传已上传 URL
	uploads := 0
	for _, c := range calls {
		if c == "document.upload" {
			uploads++
		}
	}
	assert.Equal(t, 3, uploads)

	// 档案先于审核记录，草稿删除最后
	profileIdx := f.log.indexOf("profile.submitted")
	verificationIdx := f.log.indexOf("verification.upsert")
	deleteIdx := f.log.indexOf("draft.delete")
	require.GreaterOrEqual(t, profileIdx, 0)
	assert.Less(t, profileIdx, verificationIdx)
	assert.Less(t, verificationIdx, deleteIdx)

	// 草稿清空
	_, err = f.drafts.Get(context.Background(), "g-1")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	// 档案字段
	require.NotNil(t, f.profiles.submitted)
	assert.Equal(t, domain.StatusPendingApproval, f.profiles.submitted.GuardStatus)
	assert.True(t, f.profiles.submitted.IsGuard)
	assert.NotNil(t, f.profiles.submitted.OnboardingCompletedAt)

	// 审核载荷使用上传得到的 URL，已上传的 selfie 原样透传
	saved := f.verifications.saved
	require.NotNil(t, saved)
	assert.Equal(t, "https://cdn.test/existing/selfie.jpg", saved.SelfiePhotoURL)
	assert.True(t, strings.HasPrefix(saved.IDPhotoFrontURL, "https://cdn.test/g-1/idPhotoFrontUrl_"))
	assert.True(t, strings.HasSuffix(saved.IDPhotoFrontURL, ".jpg"))
	assert.True(t, strings.HasPrefix(saved.LicensePhotoURL, "https://cdn.test/g-1/licensePhotoUrl_"))
	assert.Equal(t, 3, saved.YearsExperience)
	require.NotNil(t, saved.ServiceRadiusMiles)
	assert.Equal(t, 25, *saved.ServiceRadiusMiles)
	assert.True(t, saved.ConsentDrugTest)
	assert.Equal(t, domain.VerificationPending, saved.Status)

	// 提交事件
	require.Len(t, f.publisher.submitted, 1)
	assert.Equal(t, "Jane Doe", f.publisher.submitted[0].LegalName)
}

func TestSubmitValidatesAllSteps(t *testing.T) {
	f := newFixture()
	form := submittableForm()
	form.ConsentTerms = false

	_, err := f.svc.Submit(context.Background(), "g-1", form)
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)

	// 任何副作用都不发生
	assert.Empty(t, f.log.names())
}

func TestSubmitStaleAttachmentAbortsBeforeUpserts(t *testing.T) {
	f := newFixture()
	form := submittableForm()
	// 草稿还原后的失效句柄：只剩文件名
	form.LicensePhoto = domain.DocumentInput{FileName: "license.png"}

	_, err := f.svc.Submit(context.Background(), "g-1", form)
	require.Error(t, err)
	assert.True(t, domain.IsStaleAttachment(err))

	assert.Equal(t, -1, f.log.indexOf("profile.submitted"))
	assert.Equal(t, -1, f.log.indexOf("verification.upsert"))
	assert.Equal(t, -1, f.log.indexOf("draft.delete"))
	assert.Empty(t, f.publisher.submitted)
}

func TestSubmitProfileFailureStopsPipeline(t *testing.T) {
	f := newFixture()
	f.profiles.submitErr = errors.New("mysql down")
	f.drafts.drafts["g-1"] = domain.NewDraft("g-1", submittableForm(), domain.LastStep)

	_, err := f.svc.Submit(context.Background(), "g-1", submittableForm())
	require.Error(t, err)

	assert.Equal(t, -1, f.log.indexOf("verification.upsert"))
	assert.Equal(t, -1, f.log.indexOf("draft.delete"))

	// 草稿保留，用户可重试
	_, getErr := f.drafts.Get(context.Background(), "g-1")
	require.NoError(t, getErr)
}

func TestSubmitUploadFailureSkipsAllUpserts(t *testing.T) {
	f := newFixture()
	f.documents.err = errors.New("s3 unreachable")

	_, err := f.svc.Submit(context.Background(), "g-1", submittableForm())
	require.Error(t, err)
	assert.Equal(t, -1, f.log.indexOf("profile.submitted"))
	assert.Equal(t, -1, f.log.indexOf("verification.upsert"))
}

func TestQuickApply(t *testing.T) {
	f := newFixture()

	result, err := f.svc.QuickApply(context.Background(), &domain.QuickApplication{
		FirstName:     "Jane",
		MiddleName:    "Q",
		LastName:      "Doe",
		LicenseNumber: "12345678A",
		Email:         "jane@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	require.NotNil(t, f.applications.saved)
	assert.Equal(t, result.ID, f.applications.saved.ID)
}

func TestQuickApplyValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.QuickApply(context.Background(), &domain.QuickApplication{
		FirstName: "J",
		Email:     "bad",
	})
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Nil(t, f.applications.saved)
}
