package main

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/and161185/perfume-catalog/internal/model"
)

func newUserCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Manage users and check credentials"}

	var in model.UserInput
	var nickname, role string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
	}
	add.Flags().StringVar(&in.Email, "email", "", "email, stored lower-cased")
	add.Flags().StringVar(&in.Password, "password", "", "password, 8 to 16 characters")
	add.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	add.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	add.Flags().StringVar(&nickname, "nickname", "", "optional nickname")
	add.Flags().StringVar(&role, "role", "", `optional role: "Admin" or "Super Admin"`)
	for _, f := range []string{"email", "password", "first-name", "last-name"} {
		_ = add.MarkFlagRequired(f)
	}
	add.RunE = action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
		fs := add.Flags()
		in.Nickname = changed(fs, "nickname", nickname)
		in.Role = changed(fs, "role", role)
		return a.users.Create(ctx, in)
	})

	var first, last, nick, picture string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change profile fields; an empty --nickname or --picture clears it",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVar(&first, "first-name", "", "first name")
	update.Flags().StringVar(&last, "last-name", "", "last name")
	update.Flags().StringVar(&nick, "nickname", "", "nickname")
	update.Flags().StringVar(&picture, "picture", "", "profile picture URL")
	update.RunE = action(o, func(ctx context.Context, a *app, args []string) (any, error) {
		id, err := parseID("user", args[0])
		if err != nil {
			return nil, err
		}
		fs := update.Flags()
		return a.users.Update(ctx, id, model.UserPatch{
			FirstName:      changed(fs, "first-name", first),
			LastName:       changed(fs, "last-name", last),
			Nickname:       clearable(fs, "nickname", nick),
			ProfilePicture: clearable(fs, "picture", picture),
		})
	})

	var oldPw, newPw string
	passwd := &cobra.Command{
		Use:   "passwd <id>",
		Short: "Change a password after checking the current one",
		Args:  cobra.ExactArgs(1),
		RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID("user", args[0])
			if err != nil {
				return nil, err
			}
			if err := a.users.ChangePassword(ctx, id, oldPw, newPw); err != nil {
				return nil, err
			}
			return message{Status: "password changed"}, nil
		}),
	}
	passwd.Flags().StringVar(&oldPw, "old", "", "current password")
	passwd.Flags().StringVar(&newPw, "new", "", "new password")
	_ = passwd.MarkFlagRequired("old")
	_ = passwd.MarkFlagRequired("new")

	var email, password, ip string
	login := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and report the user's roles",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			return a.users.Authenticate(ctx, email, password, ip)
		}),
	}
	login.Flags().StringVar(&email, "email", "", "email")
	login.Flags().StringVar(&password, "password", "", "password")
	login.Flags().StringVar(&ip, "ip", "", "client address used for throttling")
	_ = login.MarkFlagRequired("email")
	_ = login.MarkFlagRequired("password")

	cmd.AddCommand(add, update, passwd, login,
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			Args:  cobra.NoArgs,
			RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
				return a.users.List(ctx)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a user with their favorites and comments",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("user", args[0])
				if err != nil {
					return nil, err
				}
				return a.users.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

func newFavoriteCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "favorite", Aliases: []string{"fav"}, Short: "Manage user favorites"}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <user-id> <perfume-id>",
			Short: "Favorite a perfume",
			Args:  cobra.ExactArgs(2),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				ids, err := parseIDs("id", args)
				if err != nil {
					return nil, err
				}
				return a.favorites.Add(ctx, ids[0], ids[1])
			}),
		},
		&cobra.Command{
			Use:   "remove <user-id> <perfume-id>",
			Short: "Remove a favorite",
			Args:  cobra.ExactArgs(2),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				ids, err := parseIDs("id", args)
				if err != nil {
					return nil, err
				}
				if err := a.favorites.Remove(ctx, ids[0], ids[1]); err != nil {
					return nil, err
				}
				return message{Status: "removed"}, nil
			}),
		},
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "List a user's favorites, most recent first",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("user", args[0])
				if err != nil {
					return nil, err
				}
				return a.favorites.List(ctx, id)
			}),
		},
	)
	return cmd
}

func newCommentCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Manage perfume comments"}

	var user, perfume, parent, content string
	var rating int
	add := &cobra.Command{
		Use:   "add",
		Short: "Comment on a perfume, optionally as a reply",
		Args:  cobra.NoArgs,
	}
	add.Flags().StringVar(&user, "user", "", "author user id")
	add.Flags().StringVar(&perfume, "perfume", "", "perfume id")
	add.Flags().StringVar(&parent, "parent", "", "parent comment id")
	add.Flags().StringVar(&content, "content", "", "comment text")
	add.Flags().IntVar(&rating, "rating", 0, "rating from 0 to 5")
	for _, f := range []string{"user", "perfume", "content"} {
		_ = add.MarkFlagRequired(f)
	}
	add.RunE = action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
		uid, err := parseID("user", user)
		if err != nil {
			return nil, err
		}
		pid, err := parseID("perfume", perfume)
		if err != nil {
			return nil, err
		}
		in := model.CommentInput{UserID: uid, PerfumeID: pid, Content: content}
		if add.Flags().Changed("parent") {
			id, err := parseID("parent", parent)
			if err != nil {
				return nil, err
			}
			in.ParentCommentID = &id
		}
		in.Rating = changed(add.Flags(), "rating", rating)
		return a.comments.Add(ctx, in)
	})

	var newContent, newParent string
	var newRating int
	var clearRating bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a comment; an empty --parent makes it top level",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVar(&newContent, "content", "", "comment text")
	update.Flags().StringVar(&newParent, "parent", "", "parent comment id")
	update.Flags().IntVar(&newRating, "rating", 0, "rating from 0 to 5")
	update.Flags().BoolVar(&clearRating, "clear-rating", false, "remove the rating")
	update.MarkFlagsMutuallyExclusive("rating", "clear-rating")
	update.RunE = action(o, func(ctx context.Context, a *app, args []string) (any, error) {
		id, err := parseID("comment", args[0])
		if err != nil {
			return nil, err
		}
		fs := update.Flags()
		p := model.CommentPatch{Content: changed(fs, "content", newContent)}
		switch {
		case fs.Changed("rating"):
			p.Rating = model.SetTo(newRating)
		case clearRating:
			p.Rating = model.Cleared[int]()
		}
		if fs.Changed("parent") {
			if newParent == "" {
				p.ParentCommentID = model.Cleared[uuid.UUID]()
			} else {
				pid, err := parseID("parent", newParent)
				if err != nil {
					return nil, err
				}
				p.ParentCommentID = model.SetTo(pid)
			}
		}
		return a.comments.Update(ctx, id, p)
	})

	var f struct{ perfume, user, parent string }
	list := &cobra.Command{
		Use:   "list",
		Short: "List comments by perfume, author or parent",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			var filter model.CommentFilter
			for _, x := range []struct {
				what, raw string
				dst       *uuid.UUID
			}{
				{"perfume", f.perfume, &filter.PerfumeID},
				{"user", f.user, &filter.UserID},
				{"parent", f.parent, &filter.ParentID},
			} {
				if x.raw == "" {
					continue
				}
				id, err := parseID(x.what, x.raw)
				if err != nil {
					return nil, err
				}
				*x.dst = id
			}
			return a.comments.List(ctx, filter)
		}),
	}
	list.Flags().StringVar(&f.perfume, "perfume", "", "perfume id")
	list.Flags().StringVar(&f.user, "user", "", "author user id")
	list.Flags().StringVar(&f.parent, "parent", "", "parent comment id")

	cmd.AddCommand(add, update, list,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a comment; replies keep their parent id",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("comment", args[0])
				if err != nil {
					return nil, err
				}
				return a.comments.Delete(ctx, id)
			}),
		},
	)
	return cmd
}
