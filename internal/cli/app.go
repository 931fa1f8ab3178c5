// Package cli is the command-line front end over the linkvote services.
// Every successful command prints its result as JSON on stdout.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/service"
)

// App dispatches commands to the services.
type App struct {
	Users    *service.UserService
	Contents *service.ContentService
	Votes    *service.VoteService
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	switch args[0] {
	case "migrate":
		// The schema is applied at startup; reaching here means it is current.
		return writeJSON(a.Stdout, map[string]string{"status": "schema up to date"})
	case "user":
		return a.runUser(ctx, args[1:])
	case "content":
		return a.runContent(ctx, args[1:])
	case "vote":
		return a.runVote(ctx, args[1:])
	case "tally":
		return a.runTally(ctx, args[1:])
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

func (a *App) runUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: user needs a subcommand (create, get, delete)", ErrUsage)
	}

	fs := a.flagSet("user " + args[0])
	switch args[0] {
	case "create":
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		email := fs.String("email", "", "email address (optional)")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		user, err := a.Users.CreateUser(ctx, *username, *password, *email)
		if err != nil {
			return err
		}
		return writeJSON(a.Stdout, user)

	case "get":
		id := fs.Int64("id", 0, "user id")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		user, err := a.Users.GetUser(ctx, *id)
		if err != nil {
			return err
		}
		return writeJSON(a.Stdout, user)

	case "delete":
		id := fs.Int64("id", 0, "user id")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := a.Users.DeleteUser(ctx, *id); err != nil {
			return err
		}
		return writeJSON(a.Stdout, map[string]any{"deleted_user_id": *id})
	}
	return fmt.Errorf("%w: unknown user subcommand %q", ErrUsage, args[0])
}

func (a *App) runContent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: content needs a subcommand (create, get, list, delete)", ErrUsage)
	}

	fs := a.flagSet("content " + args[0])
	switch args[0] {
	case "create":
		userID := fs.Int64("user", 0, "owner user id")
		url := fs.String("url", "", "link URL")
		title := fs.String("title", "", "title")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		content, err := a.Contents.CreateContent(ctx, *userID, *url, *title)
		if err != nil {
			return err
		}
		return writeJSON(a.Stdout, content)

	case "get":
		id := fs.Int64("id", 0, "content id")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		content, err := a.Contents.GetContent(ctx, *id)
		if err != nil {
			return err
		}
		return writeJSON(a.Stdout, content)

	case "list":
		userID := fs.Int64("user", 0, "owner user id")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		contents, err := a.Contents.ListByUser(ctx, *userID)
		if err != nil {
			return err
		}
		if contents == nil {
			contents = []domain.Content{}
		}
		return writeJSON(a.Stdout, contents)

	case "delete":
		id := fs.Int64("id", 0, "content id")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := a.Contents.DeleteContent(ctx, *id); err != nil {
			return err
		}
		return writeJSON(a.Stdout, map[string]any{"deleted_content_id": *id})
	}
	return fmt.Errorf("%w: unknown content subcommand %q", ErrUsage, args[0])
}

func (a *App) runVote(ctx context.Context, args []string) error {
	fs := a.flagSet("vote")
	contentID := fs.Int64("content", 0, "content id")
	userID := fs.Int64("user", 0, "voting user id")
	down := fs.Bool("down", false, "cast a downvote instead of an upvote")
	if err := parse(fs, args); err != nil {
		return err
	}

	vote, err := a.Votes.Vote(ctx, *contentID, *userID, !*down)
	if err != nil {
		return err
	}
	return writeJSON(a.Stdout, vote)
}

func (a *App) runTally(ctx context.Context, args []string) error {
	fs := a.flagSet("tally")
	contentID := fs.Int64("content", 0, "content id")
	if err := parse(fs, args); err != nil {
		return err
	}

	tally, err := a.Votes.Tally(ctx, *contentID)
	if err != nil {
		return err
	}
	return writeJSON(a.Stdout, struct {
		domain.Tally
		Score int `json:"score"`
	}{tally, tally.Score()})
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	return nil
}
