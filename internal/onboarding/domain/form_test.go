package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleItem(t *testing.T) {
	items := []string{"CPR", "First Aid"}

	added := ToggleItem(items, "Crowd Control")
	assert.Equal(t, []string{"CPR", "First Aid", "Crowd Control"}, added)

	removed := ToggleItem(added, "First Aid")
	assert.Equal(t, []string{"CPR", "Crowd Control"}, removed)

	// 两次切换同一项还原原集合
	assert.Equal(t, items, ToggleItem(ToggleItem(items, "X"), "X"))

	// 原切片不被修改
	assert.Equal(t, []string{"CPR", "First Aid"}, items)
}

func TestExperienceYearsInt(t *testing.T) {
	cases := map[string]int{
		"3-5":  3,
		"10+":  10,
		"0-1":  0,
		"":     0,
		"none": 0,
		" 5-10": 5,
	}
	for input, want := range cases {
		form := &ApplicationForm{ExperienceYears: input}
		assert.Equal(t, want, form.ExperienceYearsInt(), "input %q", input)
	}
}

func TestServiceRadiusMiles(t *testing.T) {
	form := &ApplicationForm{ServiceRadius: "25 miles"}
	radius := form.ServiceRadiusMiles()
	require.NotNil(t, radius)
	assert.Equal(t, 25, *radius)

	form.ServiceRadius = "anywhere"
	assert.Nil(t, form.ServiceRadiusMiles())

	form.ServiceRadius = ""
	assert.Nil(t, form.ServiceRadiusMiles())
}

func TestFullLegalNameAndAddress(t *testing.T) {
	form := &ApplicationForm{
		FirstName: "Jane",
		LastName:  "Doe",
		Street:    "12 Main St",
		City:      "Austin",
		State:     "TX",
		Zip:       "78701",
	}
	assert.Equal(t, "Jane Doe", form.FullLegalName())
	assert.Equal(t, "12 Main St, Austin, TX 78701", form.FullAddress())

	empty := &ApplicationForm{}
	assert.Equal(t, "", empty.FullLegalName())
}

func TestDocumentInputStates(t *testing.T) {
	assert.True(t, DocumentInput{}.IsEmpty())
	assert.True(t, DocumentInput{URL: "https://cdn/x.jpg"}.IsUploaded())
	assert.False(t, DocumentInput{URL: "https://cdn/x.jpg"}.IsStale())

	fresh := DocumentInput{FileName: "front.jpg", Content: []byte{1, 2}}
	assert.False(t, fresh.IsStale())
	assert.False(t, fresh.IsEmpty())

	// 草稿还原后只剩文件名标记
	assert.True(t, DocumentInput{FileName: "front.jpg"}.IsStale())
	// 内容在而文件名丢失
	assert.True(t, DocumentInput{Content: []byte{1}}.IsStale())
}

func TestDocumentInputExt(t *testing.T) {
	assert.Equal(t, "jpg", DocumentInput{FileName: "front.jpg"}.Ext())
	assert.Equal(t, "png", DocumentInput{FileName: "a.b.png"}.Ext())
	assert.Equal(t, "", DocumentInput{FileName: "noext"}.Ext())
	assert.Equal(t, "", DocumentInput{FileName: "trailing."}.Ext())
}

func TestDraftSerializationDropsAttachmentBytes(t *testing.T) {
	form := &ApplicationForm{
		FirstName: "Jane",
		IDFront:   DocumentInput{FileName: "front.jpg", Content: []byte{1, 2, 3}},
	}

	data, err := json.Marshal(NewDraft("g-1", form, StepIDVerification))
	require.NoError(t, err)

	var restored Draft
	require.NoError(t, json.Unmarshal(data, &restored))

	// 二进制内容不进草稿，还原后附件成为失效句柄
	assert.Empty(t, restored.Data.IDFront.Content)
	assert.True(t, restored.Data.IDFront.IsStale())
}

func TestNewDraftClampsStep(t *testing.T) {
	assert.Equal(t, LastStep, NewDraft("g-1", nil, Step(42)).Step)
	assert.Equal(t, FirstStep, NewDraft("g-1", nil, Step(-3)).Step)
}
