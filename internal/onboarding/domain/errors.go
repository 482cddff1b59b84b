package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDraftNotFound 草稿不存在
	ErrDraftNotFound = errors.New("draft not found")
	// ErrProfileNotFound 档案不存在
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAlreadySubmitted 已提交过申请
	ErrAlreadySubmitted = errors.New("application already submitted")
)

// StaleAttachmentError 附件在草稿序列化中丢失了二进制内容。
// 可由用户自行恢复：回到相关步骤重新选择文件。
type StaleAttachmentError struct {
	Field string
}

func (e *StaleAttachmentError) Error() string {
	return fmt.Sprintf("your uploaded image for the %s field was lost (likely due to a session restore); please go back to the previous steps and re-select your photos before submitting", e.Field)
}

// IsStaleAttachment 判断错误链中是否为失效附件错误
func IsStaleAttachment(err error) bool {
	var target *StaleAttachmentError
	return errors.As(err, &target)
}
