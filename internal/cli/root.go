// Package cli implements the admin command: course seeding, super-admin
// provisioning and blog source inspection.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/logger"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Store is the slice of the database the commands write to.
type Store struct {
	Courses repository.CourseRepository
	Users   repository.UserRepository
	Close   func(ctx context.Context) error
}

// StoreOpener connects to the database on demand, so commands that never
// touch it run without MONGODB_URI.
type StoreOpener func(ctx context.Context) (*Store, error)

// OpenMongoStore loads the environment configuration and connects.
func OpenMongoStore(ctx context.Context) (*Store, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	client, err := database.Connect(ctx, cfg.MongoURI, cfg.DBTimeout(), log)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DatabaseName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		Courses: repository.NewCourseRepo(db, log),
		Users:   repository.NewUserRepo(db),
		Close:   client.Disconnect,
	}, nil
}

// NewRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between runs.
func NewRootCmd(open StoreOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Operator tasks for the AlgoForge Studios backend",
		SilenceUsage: true,
	}
	root.AddCommand(
		newSeedCoursesCmd(open),
		newCreateAdminCmd(open),
		newBlogCmd(),
	)
	return root
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, open StoreOpener, fn func(ctx context.Context, st *Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	st, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if st.Close == nil {
			return
		}
		if err := st.Close(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "closing database:", err)
		}
	}()
	return fn(ctx, st)
}
