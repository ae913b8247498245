package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/blog"

	"github.com/spf13/cobra"
)

func newBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Inspect the markdown blog source",
	}

	var dir string
	list := &cobra.Command{
		Use:   "list",
		Short: "List published markdown posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dir") {
				if env := os.Getenv("BLOG_DIR"); env != "" {
					dir = env
				}
			}
			posts, err := blog.NewSource(dir).AllPosts()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tDATE\tTITLE")
			for _, p := range posts {
				date := "-"
				if t := p.SortTime(); !t.IsZero() {
					date = t.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Slug, date, p.Title)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&dir, "dir", "./content/blog", "markdown posts directory (defaults to $BLOG_DIR)")
	cmd.AddCommand(list)
	return cmd
}
