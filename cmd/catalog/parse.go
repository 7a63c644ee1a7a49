package main

import (
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/pflag"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
)

func parseID(what, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, errs.Validationf("%s: %q is not a uuid", what, s)
	}
	return id, nil
}

func parseIDs(what string, ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := parseID(what, s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// parseAssignments reads "<note-id>:<TOP|MIDDLE|BASE>" pairs. The type is case-insensitive.
func parseAssignments(ss []string) ([]model.NoteAssignment, error) {
	out := make([]model.NoteAssignment, 0, len(ss))
	for _, s := range ss {
		idPart, typ, ok := strings.Cut(s, ":")
		if !ok {
			return nil, errs.Validationf("note %q: want <id>:<TOP|MIDDLE|BASE>", s)
		}
		id, err := parseID("note", idPart)
		if err != nil {
			return nil, err
		}
		out = append(out, model.NoteAssignment{
			NoteID:   id,
			NoteType: model.NoteType(strings.ToUpper(strings.TrimSpace(typ))),
		})
	}
	return out, nil
}

// changed returns &v when the flag was given on the command line.
func changed[T any](fs *pflag.FlagSet, name string, v T) *T {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

// clearable maps a string flag onto a patch field; an empty value clears the column.
func clearable(fs *pflag.FlagSet, name, v string) model.Clearable[string] {
	switch {
	case !fs.Changed(name):
		return model.Clearable[string]{}
	case v == "":
		return model.Cleared[string]()
	}
	return model.SetTo(v)
}
