package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSeedCoursesCmd(open StoreOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-courses FILE",
		Short: "Insert courses from a YAML list",
		Long: "Reads a YAML list of course payloads and inserts them in order. Every\n" +
			"entry is validated first, so an invalid file inserts nothing. A database\n" +
			"error stops the run; courses inserted before it stay and are reported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := loadSeedFile(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, open, func(ctx context.Context, st *Store) error {
				for i, c := range courses {
					if err := st.Courses.CreateCourse(ctx, c); err != nil {
						cmd.Printf("Inserted %d of %d courses\n", i, len(courses))
						return fmt.Errorf("inserting course %d (%s): %w", i, c.Title, err)
					}
				}
				cmd.Printf("Inserted %d courses\n", len(courses))
				return nil
			})
		},
	}
}

// loadSeedFile decodes and normalizes every entry, stopping at the first
// invalid one.
func loadSeedFile(path string) ([]*model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var entries []map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	courses := make([]*model.Course, 0, len(entries))
	for i, entry := range entries {
		// Round-trip through JSON so YAML entries get the same coercion as
		// API payloads.
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("course %d: %w", i, err)
		}
		var payload model.CoursePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("course %d: %w", i, err)
		}
		c, err := service.NormalizeCourse(&payload)
		if err != nil {
			return nil, fmt.Errorf("course %d: %w", i, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}
