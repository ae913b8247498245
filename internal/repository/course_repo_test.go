package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestBuildCourseFilter_Empty(t *testing.T) {
	assert.Empty(t, BuildCourseFilter(model.CourseFilter{}))
}

func TestBuildCourseFilter_Combines(t *testing.T) {
	featured, trending := true, false
	f := BuildCourseFilter(model.CourseFilter{
		Category:       "AI/ML",
		CourseCategory: "professional",
		Featured:       &featured,
		Trending:       &trending,
		Level:          "Beginner",
		Mode:           "Online",
		Limit:          10,
		Skip:           20,
	})

	assert.Equal(t, bson.M{
		"category":       "AI/ML",
		"courseCategory": "professional",
		"featured":       true,
		"trending":       false,
		"level":          "Beginner",
		"mode":           "Online",
	}, f)
}

func TestBuildCourseFilter_SearchIsEscapedAndCaseInsensitive(t *testing.T) {
	f := BuildCourseFilter(model.CourseFilter{Search: "c++ (intro)"})

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 4)
	for _, clause := range or {
		for field, v := range clause.(bson.M) {
			re, ok := v.(primitive.Regex)
			require.True(t, ok, field)
			assert.Equal(t, `c\+\+ \(intro\)`, re.Pattern)
			assert.Equal(t, "i", re.Options)
		}
	}
}

// testDB connects to MONGODB_TEST_URI and drops the database afterwards.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set, skipping MongoDB integration test")
	}
	ctx := context.Background()
	client, err := database.Connect(ctx, uri, 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	db := client.Database("algoforge_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, database.EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestCourseRepo_Mongo(t *testing.T) {
	db := testDB(t)
	repo := NewCourseRepo(db, zerolog.Nop())
	ctx := context.Background()

	first := &model.Course{Title: "Go", Description: "d", Duration: "1w", Category: "Eng", Level: "Beginner", Featured: true, Tags: []string{"backend"}}
	second := &model.Course{Title: "ML", Description: "d", Duration: "4w", Category: "AI/ML", Level: "Beginner"}
	require.NoError(t, repo.CreateCourse(ctx, first))
	require.NoError(t, repo.CreateCourse(ctx, second))
	require.False(t, first.ID.IsZero())

	featured := true
	courses, total, err := repo.ListCourses(ctx, model.CourseFilter{Featured: &featured, Level: "Beginner"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go", courses[0].Title)

	courses, _, err = repo.ListCourses(ctx, model.CourseFilter{Search: "BACKEND"})
	require.NoError(t, err)
	require.Len(t, courses, 1)

	courses, total, err = repo.ListCourses(ctx, model.CourseFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "ML", courses[0].Title, "newest first")

	updated, err := repo.UpdateCourse(ctx, first.ID, model.CourseUpdate{"level": "Advanced"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Advanced", updated.Level)
	assert.WithinDuration(t, first.CreatedAt, updated.CreatedAt, time.Millisecond)

	missing, err := repo.UpdateCourse(ctx, primitive.NewObjectID(), model.CourseUpdate{"level": "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.DeleteCourse(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	got, err := repo.GetCourseByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_MongoDuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &model.User{Name: "A", Email: "a@example.com", Role: model.RoleStudent}))
	err := repo.CreateUser(ctx, &model.User{Name: "B", Email: "A@Example.com", Role: model.RoleStudent})
	assert.ErrorIs(t, err, ErrDuplicate)
}
