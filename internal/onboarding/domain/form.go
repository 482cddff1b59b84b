package domain

import (
	"strconv"
	"strings"
)

// ApplicationForm 入职申请表单快照，字段名与前端表单契约保持一致
type ApplicationForm struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DOB        string `json:"dob"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`

	IDFront      DocumentInput `json:"idFront"`
	IDBack       DocumentInput `json:"idBack"`
	Selfie       DocumentInput `json:"selfie"`
	LicensePhoto DocumentInput `json:"licensePhoto"`

	LicenseNumber string `json:"licenseNumber"`
	LicenseState  string `json:"licenseState"`
	LicenseExpiry string `json:"licenseExpiry"`

	ExperienceYears string   `json:"experienceYears"`
	Skills          []string `json:"skills"`
	Certifications  []string `json:"certifications"`
	Languages       []string `json:"languages"`

	AvailableDays   []string `json:"availableDays"`
	PreferredShifts []string `json:"preferredShifts"`
	ServiceRadius   string   `json:"serviceRadius"`
	Bio             string   `json:"bio"`

	ConsentBackground bool `json:"consentBackground"`
	ConsentTerms      bool `json:"consentTerms"`
}

// DocumentInput 证件附件输入。三种形态：
// 已上传（URL 非空）、新附件（Content 与 FileName 非空）、
// 草稿还原出的失效句柄（仅剩 FileName 标记，二进制内容已丢失）。
type DocumentInput struct {
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Content  []byte `json:"-"`
}

// IsEmpty 附件是否完全未提供
func (d DocumentInput) IsEmpty() bool {
	return d.URL == "" && d.FileName == "" && len(d.Content) == 0
}

// IsUploaded 附件是否已经是存储 URL
func (d DocumentInput) IsUploaded() bool {
	return d.URL != ""
}

// IsStale 附件是否为失效句柄：有内容但没有可用文件名，
// 或有文件名标记但内容已在草稿序列化时丢失
func (d DocumentInput) IsStale() bool {
	if d.URL != "" {
		return false
	}
	if len(d.Content) > 0 && d.FileName == "" {
		return true
	}
	if len(d.Content) == 0 && d.FileName != "" {
		return true
	}
	return false
}

// Ext 从文件名提取扩展名（不含点）
func (d DocumentInput) Ext() string {
	idx := strings.LastIndex(d.FileName, ".")
	if idx < 0 || idx == len(d.FileName)-1 {
		return ""
	}
	return d.FileName[idx+1:]
}

// FullLegalName 拼接法定姓名
func (f *ApplicationForm) FullLegalName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// FullAddress 拼接完整地址
func (f *ApplicationForm) FullAddress() string {
	return f.Street + ", " + f.City + ", " + f.State + " " + f.Zip
}

// ExperienceYearsInt 解析工作年限，解析失败返回 0
func (f *ApplicationForm) ExperienceYearsInt() int {
	return parseLeadingInt(f.ExperienceYears, 0)
}

// ServiceRadiusMiles 解析服务半径，解析失败返回 nil
func (f *ApplicationForm) ServiceRadiusMiles() *int {
	n := parseLeadingInt(f.ServiceRadius, -1)
	if n < 0 {
		return nil
	}
	return &n
}

// parseLeadingInt 仿 parseInt 语义：取前导整数，无前导数字返回 fallback
func parseLeadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}

// ToggleItem 切换数组成员：存在则移除，不存在则追加。
// 满足 toggle(toggle(S,x),x) == S
func ToggleItem(items []string, value string) []string {
	for i, item := range items {
		if item == value {
			out := make([]string, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out
		}
	}
	out := make([]string, 0, len(items)+1)
	out = append(out, items...)
	return append(out, value)
}
