package domain

// Draft 可恢复的入职草稿：完整表单快照加当前步骤。
// 每个申请人一个可变槽位，后写覆盖先写，无冲突检测。
type Draft struct {
	GuardID string           `json:"guard_id"`
	Data    *ApplicationForm `json:"data"`
	Step    Step             `json:"step"`
}

// NewDraft 创建草稿
func NewDraft(guardID string, form *ApplicationForm, step Step) *Draft {
	return &Draft{
		GuardID: guardID,
		Data:    form,
		Step:    step.Clamp(),
	}
}
