package domain

import "context"

// DraftRepository 草稿槽位存取
type DraftRepository interface {
	Save(ctx context.Context, draft *Draft) error
	Get(ctx context.Context, guardID string) (*Draft, error)
	Delete(ctx context.Context, guardID string) error
}

// ProfileRepository 申请人档案存取
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*Profile, error)
	// UpsertProgress 按 id 冲突键写入步骤进度与状态
	UpsertProgress(ctx context.Context, id string, step Step, status GuardStatus) error
	// UpsertSubmitted 按 id 冲突键写入提交完成后的档案字段
	UpsertSubmitted(ctx context.Context, profile *Profile) error
}

// VerificationRepository 审核记录存取
type VerificationRepository interface {
	// Upsert 按 guard_id 冲突键插入或覆盖
	Upsert(ctx context.Context, verification *Verification) error
	Get(ctx context.Context, guardID string) (*Verification, error)
}

// QuickApplicationRepository 快速申请存取
type QuickApplicationRepository interface {
	Save(ctx context.Context, app *QuickApplication) error
	Get(ctx context.Context, id int64) (*QuickApplication, error)
}

// DocumentStore 证件文档对象存储
type DocumentStore interface {
	// Upload 以覆盖语义写入对象并返回公开访问 URL
	Upload(ctx context.Context, key string, content []byte) (string, error)
}
