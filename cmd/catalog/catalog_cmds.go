package main

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/and161185/perfume-catalog/internal/migrate"
	"github.com/and161185/perfume-catalog/internal/model"
)

func newMigrateCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				if err := migrate.Up(c.Context(), o.cfg.DB.DSN, o.log); err != nil {
					return err
				}
				return o.out(c).print(message{Status: "migrated"})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show embedded migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				st, err := migrate.List(c.Context(), o.cfg.DB.DSN)
				if err != nil {
					return err
				}
				return o.out(c).print(st)
			},
		},
	)
	return cmd
}

// action adapts a service call to cobra's RunE.
func action(o *rootOpts, fn func(ctx context.Context, a *app, args []string) (any, error)) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		return o.run(c.Context(), o.out(c), func(ctx context.Context, a *app) (any, error) {
			return fn(ctx, a, args)
		})
	}
}

func newConcentrationCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "concentration", Aliases: []string{"conc"}, Short: "Manage concentrations"}

	var name, display string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a concentration",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			return a.concentrations.Create(ctx, model.ConcentrationInput{Name: name, DisplayName: display})
		}),
	}
	add.Flags().StringVar(&name, "name", "", "short name, e.g. edp")
	add.Flags().StringVar(&display, "display-name", "", "display name, e.g. Eau de Parfum")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("display-name")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a concentration",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&display, "display-name", "", "new display name")
	update.RunE = action(o, func(ctx context.Context, a *app, args []string) (any, error) {
		id, err := parseID("concentration", args[0])
		if err != nil {
			return nil, err
		}
		fs := update.Flags()
		return a.concentrations.Update(ctx, id, model.ConcentrationPatch{
			Name:        changed(fs, "name", name),
			DisplayName: changed(fs, "display-name", display),
		})
	})

	cmd.AddCommand(add, update,
		&cobra.Command{
			Use:   "list",
			Short: "List concentrations",
			Args:  cobra.NoArgs,
			RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
				return a.concentrations.List(ctx)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an unused concentration",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("concentration", args[0])
				if err != nil {
					return nil, err
				}
				return a.concentrations.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

func newNoteCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "note", Short: "Manage scent notes"}

	var name, image string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			return a.notes.Create(ctx, model.NoteInput{Name: name, ImageURL: image})
		}),
	}
	add.Flags().StringVar(&name, "name", "", "note name")
	add.Flags().StringVar(&image, "image", "", "image URL")
	_ = add.MarkFlagRequired("name")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a note",
		Args:  cobra.ExactArgs(1),
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&image, "image", "", "new image URL")
	update.RunE = action(o, func(ctx context.Context, a *app, args []string) (any, error) {
		id, err := parseID("note", args[0])
		if err != nil {
			return nil, err
		}
		fs := update.Flags()
		return a.notes.Update(ctx, id, model.NotePatch{
			Name:     changed(fs, "name", name),
			ImageURL: changed(fs, "image", image),
		})
	})

	cmd.AddCommand(add, update,
		&cobra.Command{
			Use:   "list",
			Short: "List notes",
			Args:  cobra.NoArgs,
			RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
				return a.notes.List(ctx)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a note and detach it from every perfume",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("note", args[0])
				if err != nil {
					return nil, err
				}
				return a.notes.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

// perfumeFlags are shared by perfume add and perfume update.
type perfumeFlags struct {
	name, description, brand, gender, image, concentration string
	notes                                                  []string
}

func (f *perfumeFlags) bind(c *cobra.Command) {
	fs := c.Flags()
	fs.StringVar(&f.name, "name", "", "perfume name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.brand, "brand", "", "brand")
	fs.StringVar(&f.gender, "gender", "", "Female, Male or Unisex")
	fs.StringVar(&f.image, "image", "", "image URL")
	fs.StringVar(&f.concentration, "concentration", "", "concentration id")
	fs.StringArrayVar(&f.notes, "note", nil, "note as <id>:<TOP|MIDDLE|BASE>, repeatable")
}

func newPerfumeCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "perfume", Short: "Manage perfumes, their notes and set-match queries"}

	var pf perfumeFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a perfume with optional initial notes",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			conc, err := parseID("concentration", pf.concentration)
			if err != nil {
				return nil, err
			}
			notes, err := parseAssignments(pf.notes)
			if err != nil {
				return nil, err
			}
			return a.perfumes.Create(ctx, model.PerfumeInput{
				Name: pf.name, Description: pf.description, Brand: pf.brand,
				Gender: model.Gender(pf.gender), ImageURL: pf.image,
				ConcentrationID: conc, Notes: notes,
			})
		}),
	}
	pf.bind(add)
	for _, f := range []string{"name", "description", "brand", "gender", "image", "concentration"} {
		_ = add.MarkFlagRequired(f)
	}

	var upf perfumeFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a perfume; --note replaces the whole note mapping",
		Args:  cobra.ExactArgs(1),
	}
	upf.bind(update)
	update.RunE = action(o, func(ctx context.Context, a *app, args []string) (any, error) {
		id, err := parseID("perfume", args[0])
		if err != nil {
			return nil, err
		}
		fs := update.Flags()
		p := model.PerfumePatch{
			Name:        changed(fs, "name", upf.name),
			Description: changed(fs, "description", upf.description),
			Brand:       changed(fs, "brand", upf.brand),
			Gender:      changed(fs, "gender", model.Gender(upf.gender)),
			ImageURL:    changed(fs, "image", upf.image),
		}
		if fs.Changed("concentration") {
			conc, err := parseID("concentration", upf.concentration)
			if err != nil {
				return nil, err
			}
			p.ConcentrationID = &conc
		}
		if fs.Changed("note") {
			notes, err := parseAssignments(upf.notes)
			if err != nil {
				return nil, err
			}
			p.Notes = &notes
		}
		return a.perfumes.Update(ctx, id, p)
	})

	var filter struct{ brand, gender, concentration string }
	list := &cobra.Command{
		Use:   "list",
		Short: "List perfumes",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			f := model.PerfumeFilter{Brand: filter.brand, Gender: model.Gender(filter.gender)}
			if filter.concentration != "" {
				id, err := parseID("concentration", filter.concentration)
				if err != nil {
					return nil, err
				}
				f.ConcentrationID = id
			}
			return a.perfumes.List(ctx, f)
		}),
	}
	list.Flags().StringVar(&filter.brand, "brand", "", "only this brand")
	list.Flags().StringVar(&filter.gender, "gender", "", "only this gender")
	list.Flags().StringVar(&filter.concentration, "concentration", "", "only this concentration id")

	var matchNotes []string
	match := &cobra.Command{
		Use:   "match",
		Short: "List perfumes containing every given note",
		Args:  cobra.NoArgs,
		RunE: action(o, func(ctx context.Context, a *app, _ []string) (any, error) {
			ids, err := parseIDs("note", matchNotes)
			if err != nil {
				return nil, err
			}
			return a.match.PerfumesWithNotes(ctx, ids)
		}),
	}
	match.Flags().StringSliceVar(&matchNotes, "note", nil, "note id, repeatable or comma separated")
	_ = match.MarkFlagRequired("note")

	cmd.AddCommand(add, update, list, match, newPerfumeNotesCmd(o),
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a perfume with its concentration and notes",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("perfume", args[0])
				if err != nil {
					return nil, err
				}
				return a.perfumes.Get(ctx, id)
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a perfume with its note links, favorites and comments",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("perfume", args[0])
				if err != nil {
					return nil, err
				}
				return a.perfumes.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

func newPerfumeNotesCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "notes", Short: "Manage the notes of one perfume"}

	batch := func(use, short string, call func(ctx context.Context, a *app, id uuid.UUID, notes []model.NoteAssignment) (any, error)) *cobra.Command {
		var raw []string
		c := &cobra.Command{
			Use:   use + " <perfume-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("perfume", args[0])
				if err != nil {
					return nil, err
				}
				notes, err := parseAssignments(raw)
				if err != nil {
					return nil, err
				}
				return call(ctx, a, id, notes)
			}),
		}
		c.Flags().StringArrayVar(&raw, "note", nil, "note as <id>:<TOP|MIDDLE|BASE>, repeatable")
		_ = c.MarkFlagRequired("note")
		return c
	}

	cmd.AddCommand(
		batch("attach", "Add notes; fails if any is already attached",
			func(ctx context.Context, a *app, id uuid.UUID, notes []model.NoteAssignment) (any, error) {
				return a.perfumeNotes.AttachNotes(ctx, id, notes)
			}),
		batch("set", "Replace the whole note mapping",
			func(ctx context.Context, a *app, id uuid.UUID, notes []model.NoteAssignment) (any, error) {
				return a.perfumeNotes.ReplaceNotes(ctx, id, notes)
			}),
		&cobra.Command{
			Use:   "clear <perfume-id>",
			Short: "Detach every note",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("perfume", args[0])
				if err != nil {
					return nil, err
				}
				n, err := a.perfumeNotes.DetachAllNotes(ctx, id)
				if err != nil {
					return nil, err
				}
				return message{Status: "detached", Count: &n}, nil
			}),
		},
		&cobra.Command{
			Use:   "list <perfume-id>",
			Short: "List notes in insertion order",
			Args:  cobra.ExactArgs(1),
			RunE: action(o, func(ctx context.Context, a *app, args []string) (any, error) {
				id, err := parseID("perfume", args[0])
				if err != nil {
					return nil, err
				}
				return a.perfumeNotes.ListNotesForPerfume(ctx, id)
			}),
		},
	)
	return cmd
}
