package service

import (
	"encoding/json"
	"testing"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, body string) *model.CoursePayload {
	t.Helper()
	var p model.CoursePayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

const validCourse = `{"title":"ML 101","description":"Intro","duration":"4 weeks","category":"AI/ML"`

func TestNormalizeCourse_RequiredFields(t *testing.T) {
	cases := []struct {
		missing string
		body    string
	}{
		{"title", `{"description":"d","duration":"1w","category":"c"}`},
		{"description", `{"title":"t","duration":"1w","category":"c"}`},
		{"duration", `{"title":"t","description":"d","category":"c"}`},
		{"category", `{"title":"t","description":"d","duration":"1w"}`},
		{"title", `{"title":"","description":"d","duration":"1w","category":"c"}`},
	}
	for _, tc := range cases {
		t.Run(tc.missing, func(t *testing.T) {
			_, err := NormalizeCourse(payload(t, tc.body))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.missing, verr.Field)
			assert.Equal(t, tc.missing+" is required", verr.Message)
		})
	}
}

func TestNormalizeCourse_CoercesMalformedLists(t *testing.T) {
	c, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":"week one","skills":"python","tags":{"a":1}}`))
	require.NoError(t, err)

	assert.Equal(t, []model.SyllabusModule{}, c.Syllabus)
	assert.Equal(t, []string{}, c.Skills)
	assert.Equal(t, []string{}, c.Tags)
	assert.Equal(t, []string{}, c.Curriculum)
}

func TestNormalizeCourse_TopicFiltering(t *testing.T) {
	c, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":[{"module":"Week 1","topics":["", "  ", "Valid Topic", null]}]}`))
	require.NoError(t, err)

	require.Len(t, c.Syllabus, 1)
	assert.Equal(t, []string{"Valid Topic"}, c.Syllabus[0].Topics)
}

func TestNormalizeCourse_ModuleName(t *testing.T) {
	for _, name := range []string{`""`, `"   "`, `null`, `5`} {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":[{"module":"Week 1"},{"module":`+name+`}]}`))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "syllabus[1].module", verr.Field)
			assert.Equal(t, "syllabus[1].module is required", verr.Message)
		})
	}

	c, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":[{"module":"  Week 1  "}]}`))
	require.NoError(t, err)
	assert.Equal(t, []model.SyllabusModule{{Module: "Week 1", Topics: []string{}}}, c.Syllabus)
}

func TestNormalizeCourse_MalformedSyllabusEntries(t *testing.T) {
	_, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":["Week 1"]}`))
	assert.EqualError(t, err, "syllabus[0] must be an object")

	_, err = NormalizeCourse(payload(t, validCourse+`,"syllabus":[{"module":"W","topics":"intro"}]}`))
	assert.EqualError(t, err, "syllabus[0].topics must be an array")
}

func TestNormalizeCourse_OptionalFields(t *testing.T) {
	c, err := NormalizeCourse(payload(t, validCourse+`,"level":"Beginner","mode":"Online","featured":true,"rating":4.5,"students":120,"skills":["python", 3, ""],"courseCategory":"bootcamp"}`))
	require.NoError(t, err)

	assert.Equal(t, "Beginner", c.Level)
	assert.Equal(t, "Online", c.Mode)
	assert.True(t, c.Featured)
	assert.False(t, c.Trending)
	assert.Equal(t, 4.5, c.Rating)
	assert.Equal(t, 120, c.Students)
	assert.Equal(t, "bootcamp", c.CourseCategory)
	assert.Equal(t, []string{"python", ""}, c.Skills)
}

func TestNormalizeCourse_Idempotent(t *testing.T) {
	first, err := NormalizeCourse(payload(t, validCourse+`,"syllabus":[{"module":" Week 1 ","topics":["  Intro  ","", null]}],"tags":["ml"],"skills":7}`))
	require.NoError(t, err)

	again, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := NormalizeCourse(payload(t, string(again)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeCourseUpdate_OnlyPresentFields(t *testing.T) {
	update, err := NormalizeCourseUpdate(payload(t, `{"level":"Advanced","syllabus":[{"module":"W2","topics":[" a "]}]}`))
	require.NoError(t, err)

	assert.Equal(t, model.CourseUpdate{
		"level":    "Advanced",
		"syllabus": []model.SyllabusModule{{Module: "W2", Topics: []string{"a"}}},
	}, update)
}

func TestNormalizeCourseUpdate_RejectsBlankRequired(t *testing.T) {
	_, err := NormalizeCourseUpdate(payload(t, `{"duration":""}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duration", verr.Field)
	assert.Equal(t, "duration cannot be empty", verr.Message)
}

func TestNormalizeCourseUpdate_DropsServerOwnedFields(t *testing.T) {
	update, err := NormalizeCourseUpdate(payload(t, `{"_id":"abc","createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z","title":"New"}`))
	require.NoError(t, err)

	assert.Equal(t, model.CourseUpdate{"title": "New"}, update)
}

func TestNormalizeCourseUpdate_MalformedListsBecomeEmpty(t *testing.T) {
	update, err := NormalizeCourseUpdate(payload(t, `{"tags":"ml","syllabus":{}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{}, update["tags"])
	assert.Equal(t, []model.SyllabusModule{}, update["syllabus"])
}
