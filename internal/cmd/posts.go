package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/spf13/cobra"
)

func (a *app) postsCmd() *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "List, show, create, edit and delete posts",
	}
	posts.AddCommand(
		a.postsListCmd(),
		a.postsShowCmd(),
		a.postsCreateCmd(),
		a.postsEditCmd(),
		a.postsDeleteCmd(),
	)
	return posts
}

func (a *app) postsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.screens()
			if err != nil {
				return err
			}
			page, err := s.List(cmd.Context())
			a.printer.List(page)
			if err != nil {
				a.console.Error("Error fetching posts: " + err.Error())
				return ErrReported
			}
			return nil
		},
	}
}

func (a *app) postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.screens()
			if err != nil {
				return err
			}
			page, err := s.Detail(cmd.Context(), id)
			if err != nil {
				if !errors.Is(err, goBlog.ErrPostNotFound) {
					a.console.Error("Error fetching post: " + err.Error())
				}
				return ErrReported
			}
			a.printer.Detail(page)
			return nil
		},
	}
}

type postFlags struct {
	title   string
	content string
	author  string
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "post title")
	cmd.Flags().StringVar(&f.content, "content", "", "post content")
	cmd.Flags().StringVar(&f.author, "author", "", "author name")
}

// apply overrides in with every flag the user set.
func (f *postFlags) apply(cmd *cobra.Command, in *goBlog.PostInput) {
	if cmd.Flags().Changed("title") {
		in.Title = f.title
	}
	if cmd.Flags().Changed("content") {
		in.Content = f.content
	}
	if cmd.Flags().Changed("author") {
		in.Author = f.author
	}
}

func (a *app) postsCreateCmd() *cobra.Command {
	var flags postFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post (login required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.savePost(cmd, 0, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) postsEditCmd() *cobra.Command {
	var flags postFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a post (login required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.savePost(cmd, id, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) savePost(cmd *cobra.Command, id int64, flags *postFlags) error {
	s, err := a.screens()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	page, ok := s.OpenForm(ctx, id)
	if !ok {
		return ErrReported
	}

	in := page.Input
	flags.apply(cmd, &in)
	if incomplete(in) && a.interactive() {
		if err := a.prompter.Post(&in, page.Editing()); err != nil {
			return err
		}
	}

	if !s.NewForm().Submit(ctx, id, in) {
		return ErrReported
	}
	return nil
}

func incomplete(in goBlog.PostInput) bool {
	return strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Content) == "" ||
		strings.TrimSpace(in.Author) == ""
}

func (a *app) postsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post (login required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !a.interactive() {
					return errors.New("refusing to delete without --yes on a non-interactive terminal")
				}
				confirmed, err := a.prompter.Confirm(fmt.Sprintf("Delete post #%d?", id))
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			s, err := a.screens()
			if err != nil {
				return err
			}
			if !s.Delete(cmd.Context(), id) {
				return ErrReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", raw)
	}
	return id, nil
}
