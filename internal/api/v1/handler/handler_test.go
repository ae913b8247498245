package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/blog"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/middleware"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/notify"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/pubsub"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository/repotest"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/util"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// testAdmin is stored in every testAPI; adminToken signs in as this account.
var testAdmin = model.User{ID: primitive.NewObjectID(), Name: "Admin", Email: "admin@example.com", Role: model.RoleSuperAdmin}

// testAPI wires every handler over in-memory repositories the way the
// router does.
type testAPI struct {
	router  *mux.Router
	courses *repotest.CourseRepo
	leads   *repotest.LeadRepo
	users   *repotest.UserRepo
	blogs   *repotest.BlogRepo
	blogDir string
	chat    service.ChatClient
}

type apiOption func(*testAPI)

func withCourses(seed ...model.Course) apiOption {
	return func(a *testAPI) { a.courses = repotest.NewCourseRepo(seed...) }
}

func withUsers(seed ...model.User) apiOption {
	return func(a *testAPI) { a.users = repotest.NewUserRepo(append(seed, testAdmin)...) }
}

func withChat(c service.ChatClient) apiOption {
	return func(a *testAPI) { a.chat = c }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	a := &testAPI{
		courses: repotest.NewCourseRepo(),
		leads:   repotest.NewLeadRepo(),
		users:   repotest.NewUserRepo(testAdmin),
		blogs:   repotest.NewBlogRepo(),
		blogDir: t.TempDir(),
	}
	for _, o := range opts {
		o(a)
	}

	logger := zerolog.Nop()
	validate := NewValidator()

	courseSvc := service.NewCourseService(a.courses, logger)
	leadSvc := service.NewLeadService(a.leads, pubsub.NopPublisher{}, "lead-captured", notify.NopNotifier{}, logger)
	userSvc := service.NewUserService(a.users, a.courses, testSecret, time.Hour, logger)
	blogSvc := service.NewBlogService(a.blogs, blog.NewSource(a.blogDir), logger)
	storageSvc := service.NewStorageService(nil, "", "", logger)
	chatSvc := service.NewChatService(a.chat, "test-model", logger)
	dashboardSvc := service.NewDashboardService(courseSvc, leadSvc, userSvc, blogSvc, logger)

	authMw := middleware.AuthMiddleware(testSecret, logger)
	accountMw := middleware.RequireAccount(AccountLookup(userSvc), logger)
	adminMw := func(next http.Handler) http.Handler {
		return authMw(middleware.RequireRole(model.RoleSuperAdmin)(accountMw(next)))
	}
	limiter := middleware.NewRateLimiter(nil, 0, time.Minute, logger)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	NewCourseHandler(courseSvc, validate, logger).RegisterRoutes(api, adminMw)
	NewLeadHandler(leadSvc, validate, logger).RegisterRoutes(api, limiter)
	NewUserHandler(userSvc, validate, time.Hour, true, logger).RegisterRoutes(api, authMw, limiter)
	NewBlogHandler(blogSvc, logger).RegisterRoutes(api)
	NewAdminHandler(dashboardSvc, courseSvc, leadSvc, userSvc, blogSvc, storageSvc, validate, logger).RegisterRoutes(api, adminMw)
	NewChatHandler(chatSvc, validate, logger).RegisterRoutes(api, limiter)
	a.router = r
	return a
}

type request struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func (a *testAPI) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := req.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	r.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.cookie != nil {
		r.AddCookie(req.cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)
	return rec
}

func tokenFor(t *testing.T, u model.User) string {
	t.Helper()
	token, err := util.IssueJWT(testSecret, u.ID.Hex(), u.Email, string(u.Role), time.Hour)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	return tokenFor(t, testAdmin)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
