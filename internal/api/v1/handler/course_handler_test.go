package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ml101() map[string]any {
	return map[string]any{
		"title":       "ML 101",
		"description": "Intro",
		"duration":    "4 weeks",
		"category":    "AI/ML",
		"syllabus": []any{
			map[string]any{"module": "Week 1", "topics": []any{"  Intro  ", ""}},
		},
	}
}

func TestCreateCourse_NormalizesSyllabus(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: ml101(), token: adminToken(t)})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[dto.CourseMutationResponseDTO](t, rec)
	assert.Equal(t, "Course created successfully", resp.Message)
	require.NotNil(t, resp.Course)
	require.Len(t, resp.Course.Syllabus, 1)
	assert.Equal(t, "Week 1", resp.Course.Syllabus[0].Module)
	assert.Equal(t, []string{"Intro"}, resp.Course.Syllabus[0].Topics)
	assert.Equal(t, []string{}, resp.Course.Skills)
	assert.False(t, resp.Course.ID.IsZero())
}

func TestCreateCourse_MissingFieldNamesIt(t *testing.T) {
	api := newTestAPI(t)
	body := ml101()
	delete(body, "duration")

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: body, token: adminToken(t)})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[dto.ValidationErrorResponseDTO](t, rec)
	assert.Contains(t, resp.Error, "duration")
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "duration", resp.Details[0].Field)
	assert.Zero(t, api.courses.Calls())
}

func TestCreateCourse_BlankModuleIsIndexed(t *testing.T) {
	api := newTestAPI(t)
	body := ml101()
	body["syllabus"] = []any{map[string]any{"module": "Ok"}, map[string]any{"module": "   "}}

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: body, token: adminToken(t)})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[dto.ValidationErrorResponseDTO](t, rec).Error, "syllabus[1].module")
}

func TestCreateCourse_FieldLevelValidation(t *testing.T) {
	api := newTestAPI(t)
	body := ml101()
	body["rating"] = 9

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: body, token: adminToken(t)})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[dto.ValidationErrorResponseDTO](t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "rating", resp.Details[0].Field)
}

func TestCreateCourse_MalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: `{"title":`, token: adminToken(t)})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseWrites_RequireSuperAdmin(t *testing.T) {
	api := newTestAPI(t)
	student := model.User{ID: primitive.NewObjectID(), Email: "s@example.com", Role: model.RoleStudent}

	rec := api.do(t, request{method: http.MethodPost, path: "/api/courses", body: ml101()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, request{method: http.MethodPost, path: "/api/courses", body: ml101(), token: tokenFor(t, student)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, api.courses.Calls())
}

func TestCourseByID_MalformedIDNeverQueries(t *testing.T) {
	api := newTestAPI(t)
	token := adminToken(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := api.do(t, request{method: method, path: "/api/courses/not-an-id", body: map[string]any{"title": "x"}, token: token})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid course ID", decode[dto.ErrorResponseDTO](t, rec).Error)
		})
	}
	assert.Zero(t, api.courses.Calls())
}

func TestCourseByID_NotFound(t *testing.T) {
	api := newTestAPI(t)
	path := "/api/courses/" + primitive.NewObjectID().Hex()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := api.do(t, request{method: method, path: path, body: map[string]any{"title": "x"}, token: adminToken(t)})
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Equal(t, "Course not found", decode[dto.ErrorResponseDTO](t, rec).Error)
	}
}

func TestGetCourse(t *testing.T) {
	c := model.Course{ID: primitive.NewObjectID(), Title: "Go", Description: "d", Duration: "1w", Category: "Eng"}
	api := newTestAPI(t, withCourses(c))

	rec := api.do(t, request{method: http.MethodGet, path: "/api/courses/" + c.ID.Hex()})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Go", decode[dto.CourseResponseDTO](t, rec).Course.Title)
}

func TestUpdateCourse_IgnoresServerOwnedFields(t *testing.T) {
	c := model.Course{ID: primitive.NewObjectID(), Title: "Go", Description: "d", Duration: "1w", Category: "Eng"}
	api := newTestAPI(t, withCourses(c))
	stored, err := api.courses.GetCourseByID(t.Context(), c.ID)
	require.NoError(t, err)

	body := map[string]any{
		"_id":       primitive.NewObjectID().Hex(),
		"createdAt": "1999-01-01T00:00:00Z",
		"updatedAt": "1999-01-01T00:00:00Z",
		"level":     "Advanced",
		"tags":      "not-a-list",
	}
	rec := api.do(t, request{method: http.MethodPatch, path: "/api/courses/" + c.ID.Hex(), body: body, token: adminToken(t)})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[dto.CourseMutationResponseDTO](t, rec)
	assert.Equal(t, "Course updated successfully", resp.Message)
	assert.Equal(t, c.ID, resp.Course.ID)
	assert.True(t, stored.CreatedAt.Equal(resp.Course.CreatedAt))
	assert.Equal(t, "Advanced", resp.Course.Level)
	assert.Equal(t, "Go", resp.Course.Title)
	assert.Equal(t, []string{}, resp.Course.Tags)
}

func TestUpdateCourse_RejectsBlankRequiredField(t *testing.T) {
	c := model.Course{ID: primitive.NewObjectID(), Title: "Go", Description: "d", Duration: "1w", Category: "Eng"}
	api := newTestAPI(t, withCourses(c))

	rec := api.do(t, request{method: http.MethodPut, path: "/api/courses/" + c.ID.Hex(), body: map[string]any{"title": ""}, token: adminToken(t)})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCourse(t *testing.T) {
	c := model.Course{ID: primitive.NewObjectID(), Title: "Go", Description: "d", Duration: "1w", Category: "Eng"}
	api := newTestAPI(t, withCourses(c))

	rec := api.do(t, request{method: http.MethodDelete, path: "/api/courses/" + c.ID.Hex(), token: adminToken(t)})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.CourseMutationResponseDTO](t, rec)
	assert.Equal(t, "Course deleted successfully", resp.Message)
	assert.Equal(t, c.ID, resp.Course.ID)

	rec = api.do(t, request{method: http.MethodGet, path: "/api/courses/" + c.ID.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCourses_FilterCombination(t *testing.T) {
	api := newTestAPI(t, withCourses(
		model.Course{Title: "A", Featured: true, Level: "Beginner"},
		model.Course{Title: "B", Featured: true, Level: "Advanced"},
		model.Course{Title: "C", Featured: false, Level: "Beginner"},
		model.Course{Title: "D", Featured: false, Level: "Advanced"},
	))

	titles := func(path string) []string {
		rec := api.do(t, request{method: http.MethodGet, path: path})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[dto.CourseListResponseDTO](t, rec)
		out := make([]string, 0, len(resp.Courses))
		for _, c := range resp.Courses {
			out = append(out, c.Title)
		}
		assert.EqualValues(t, len(out), resp.Total)
		return out
	}

	assert.ElementsMatch(t, []string{"A"}, titles("/api/courses?featured=true&level=Beginner"))
	assert.ElementsMatch(t, []string{"A", "B"}, titles("/api/courses?featured=true"))
	assert.ElementsMatch(t, []string{"A", "C"}, titles("/api/courses?level=Beginner"))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, titles("/api/courses"))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, titles("/api/courses?featured=maybe"))
}

func TestListCourses_BadPagination(t *testing.T) {
	api := newTestAPI(t)

	for _, q := range []string{"limit=abc", "skip=-1"} {
		rec := api.do(t, request{method: http.MethodGet, path: "/api/courses?" + q})
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	assert.Zero(t, api.courses.Calls())
}

func TestParseCourseFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/courses?category=AI&courseCategory=pro&trending=false&search=go&mode=Online&limit=5&skip=10", nil)

	f, err := parseCourseFilter(r)

	require.NoError(t, err)
	assert.Equal(t, "AI", f.Category)
	assert.Equal(t, "pro", f.CourseCategory)
	assert.Nil(t, f.Featured)
	require.NotNil(t, f.Trending)
	assert.False(t, *f.Trending)
	assert.Equal(t, "go", f.Search)
	assert.Equal(t, "Online", f.Mode)
	assert.EqualValues(t, 5, f.Limit)
	assert.EqualValues(t, 10, f.Skip)
}
