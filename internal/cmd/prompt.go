package cmd

import (
	"fmt"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/charmbracelet/huh"
)

// Prompter collects missing input interactively.
type Prompter interface {
	Credentials(username, password *string) error
	Post(in *goBlog.PostInput, editing bool) error
	Confirm(message string) (bool, error)
}

type huhPrompter struct{}

func (huhPrompter) Credentials(username, password *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(username),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func (huhPrompter) Post(in *goBlog.PostInput, editing bool) error {
	title := "Create New Post"
	if editing {
		title = "Edit Post"
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("Enter post title").
			Value(&in.Title),
		huh.NewInput().
			Title("Author").
			Placeholder("Enter author name").
			Value(&in.Author),
		huh.NewText().
			Title("Content").
			Placeholder("Enter post content").
			Value(&in.Content),
	).Title(title))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func (huhPrompter) Confirm(message string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}
