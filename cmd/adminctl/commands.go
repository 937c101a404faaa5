package main

import (
	"context"
	"flag"
	"fmt"

	"equiplend/adminctl/internal/action"
	"equiplend/adminctl/internal/client"
	"equiplend/adminctl/internal/confirm"
)

// newFlow wires a confirmation-gated flow for one guarded command.
func newFlow(a *app, cfg confirm.Config) (*confirm.Flow, error) {
	cfg.Gateway = a.gateway
	cfg.Notifier = a.notifier
	cfg.Recorder = a.auditor
	cfg.Store = a.store
	return confirm.New(cfg)
}

func runUsers(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s users <list|create|update|delete> [options]", progName)
	}
	switch args[0] {
	case "list":
		return printUsers(ctx, a)
	case "create":
		return runUserCreate(ctx, a, args[1:])
	case "update":
		return runUserUpdate(ctx, a, args[1:])
	case "delete":
		return runUserDelete(ctx, a, args[1:])
	}
	return fmt.Errorf("unknown users subcommand: %s", args[0])
}

func printUsers(ctx context.Context, a *app) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%-8s  %-16s  %-24s  %-10s  %s\n", u.ID, u.Username, u.Name, u.Role, u.Branch)
	}
	return nil
}

func runUserDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("users delete", flag.ExitOnError)
	id := fs.String("id", "", "user id to delete")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("users delete: -id is required")
	}

	// Resolve the display name so the confirmation names who is removed.
	summary := *id
	if users, err := a.api.ListUsers(ctx); err == nil {
		for _, u := range users {
			if u.ID == *id {
				summary = u.Name
				break
			}
		}
	}

	flow, err := newFlow(a, confirm.Config{
		Mutation: func(ctx context.Context, p *action.Pending) error {
			return a.api.DeleteUser(ctx, p.TargetID)
		},
		Refresh: func(ctx context.Context) error { return printUsers(ctx, a) },
		SuccessMessage: func(p *action.Pending) string {
			return fmt.Sprintf("deleted user %s", p.Summary)
		},
		FailureMessage: func(p *action.Pending) string {
			return fmt.Sprintf("could not delete user %s", p.Summary)
		},
	})
	if err != nil {
		return err
	}
	return runGuarded(ctx, flow, action.New(action.KindDeleteUser, *id, summary))
}

func runUserCreate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("users create", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	role := fs.String("role", "staff", "role (admin|staff)")
	branch := fs.String("branch", "", "home branch code")
	_ = fs.Parse(args)
	if *username == "" || *name == "" {
		return fmt.Errorf("users create: -username and -name are required")
	}

	u := client.User{Username: *username, Name: *name, Email: *email, Role: *role, Branch: *branch}
	flow, err := newFlow(a, confirm.Config{
		Mutation: func(ctx context.Context, p *action.Pending) error {
			created, err := a.api.CreateUser(ctx, u)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (id %s)\n", created.Name, created.ID)
			return nil
		},
		SuccessMessage: func(p *action.Pending) string {
			return fmt.Sprintf("created user %s", p.Summary)
		},
	})
	if err != nil {
		return err
	}
	return runGuarded(ctx, flow, action.New(action.KindCreateUser, "", *name))
}

func runUserUpdate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("users update", flag.ExitOnError)
	id := fs.String("id", "", "user id to update")
	name := fs.String("name", "", "new display name")
	email := fs.String("email", "", "new email address")
	role := fs.String("role", "", "new role")
	branch := fs.String("branch", "", "new home branch code")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("users update: -id is required")
	}

	u := client.User{Name: *name, Email: *email, Role: *role, Branch: *branch}
	flow, err := newFlow(a, confirm.Config{
		Mutation: func(ctx context.Context, p *action.Pending) error {
			_, err := a.api.UpdateUser(ctx, p.TargetID, u)
			return err
		},
		Refresh: func(ctx context.Context) error { return printUsers(ctx, a) },
		SuccessMessage: func(p *action.Pending) string {
			return fmt.Sprintf("updated user %s", p.TargetID)
		},
	})
	if err != nil {
		return err
	}
	summary := *name
	if summary == "" {
		summary = *id
	}
	return runGuarded(ctx, flow, action.New(action.KindUpdateUser, *id, summary))
}

func runBranches(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s branches <list|delete> [options]", progName)
	}
	switch args[0] {
	case "list":
		return printBranches(ctx, a)
	case "delete":
		return runBranchDelete(ctx, a, args[1:])
	}
	return fmt.Errorf("unknown branches subcommand: %s", args[0])
}

func printBranches(ctx context.Context, a *app) error {
	branches, err := a.api.ListBranches(ctx)
	if err != nil {
		return err
	}
	for _, b := range branches {
		fmt.Printf("%-8s  %-10s  %s\n", b.ID, b.Code, b.Name)
	}
	return nil
}

func runBranchDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("branches delete", flag.ExitOnError)
	id := fs.String("id", "", "branch id to delete")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("branches delete: -id is required")
	}

	summary := *id
	if branches, err := a.api.ListBranches(ctx); err == nil {
		for _, b := range branches {
			if b.ID == *id {
				summary = fmt.Sprintf("%s (%s)", b.Name, b.Code)
				break
			}
		}
	}

	flow, err := newFlow(a, confirm.Config{
		Mutation: func(ctx context.Context, p *action.Pending) error {
			return a.api.DeleteBranch(ctx, p.TargetID)
		},
		Refresh: func(ctx context.Context) error { return printBranches(ctx, a) },
		SuccessMessage: func(p *action.Pending) string {
			return fmt.Sprintf("deleted branch %s", p.Summary)
		},
	})
	if err != nil {
		return err
	}
	return runGuarded(ctx, flow, action.New(action.KindDeleteBranch, *id, summary))
}

func runCategories(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s categories <list|delete> [options]", progName)
	}
	switch args[0] {
	case "list":
		return printCategories(ctx, a)
	case "delete":
		return runCategoryDelete(ctx, a, args[1:])
	}
	return fmt.Errorf("unknown categories subcommand: %s", args[0])
}

func printCategories(ctx context.Context, a *app) error {
	categories, err := a.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%-8s  %-10s  %s\n", c.ID, c.Code, c.Name)
	}
	return nil
}

func runCategoryDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("categories delete", flag.ExitOnError)
	id := fs.String("id", "", "category id to delete")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("categories delete: -id is required")
	}

	summary := *id
	if categories, err := a.api.ListCategories(ctx); err == nil {
		for _, c := range categories {
			if c.ID == *id {
				summary = fmt.Sprintf("%s (%s)", c.Name, c.Code)
				break
			}
		}
	}

	flow, err := newFlow(a, confirm.Config{
		Mutation: func(ctx context.Context, p *action.Pending) error {
			return a.api.DeleteCategory(ctx, p.TargetID)
		},
		Refresh: func(ctx context.Context) error { return printCategories(ctx, a) },
		SuccessMessage: func(p *action.Pending) string {
			return fmt.Sprintf("deleted category %s", p.Summary)
		},
	})
	if err != nil {
		return err
	}
	return runGuarded(ctx, flow, action.New(action.KindDeleteCategory, *id, summary))
}
