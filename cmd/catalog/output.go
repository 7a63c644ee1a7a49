package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/and161185/perfume-catalog/internal/migrate"
	"github.com/and161185/perfume-catalog/internal/model"
)

// printer renders command results as a table or as one JSON document.
type printer struct {
	w    io.Writer
	json bool
}

func (p printer) print(v any) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	writeTable(tw, v)
	return tw.Flush()
}

func opt[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func writeTable(w io.Writer, v any) {
	switch v := v.(type) {
	case *model.Concentration:
		writeTable(w, []model.Concentration{*v})
	case []model.Concentration:
		fmt.Fprintln(w, "ID\tNAME\tDISPLAY NAME")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.DisplayName)
		}
	case *model.Note:
		writeTable(w, []model.Note{*v})
	case []model.Note:
		fmt.Fprintln(w, "ID\tNAME\tIMAGE")
		for _, n := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Name, n.ImageURL)
		}
	case []model.Perfume:
		fmt.Fprintln(w, "ID\tBRAND\tNAME\tGENDER\tCONCENTRATION")
		for _, p := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Brand, p.Name, p.Gender, p.ConcentrationID)
		}
	case *model.PerfumeDetail:
		conc := v.ConcentrationID.String()
		if v.Concentration != nil {
			conc = v.Concentration.DisplayName
		}
		fmt.Fprintf(w, "ID\t%s\n", v.ID)
		fmt.Fprintf(w, "Name\t%s\n", v.Name)
		fmt.Fprintf(w, "Brand\t%s\n", v.Brand)
		fmt.Fprintf(w, "Gender\t%s\n", v.Gender)
		fmt.Fprintf(w, "Concentration\t%s\n", conc)
		fmt.Fprintf(w, "Image\t%s\n", v.ImageURL)
		fmt.Fprintf(w, "Description\t%s\n", v.Description)
		fmt.Fprintln(w)
		writeTable(w, v.Notes)
	case []model.PerfumeNoteView:
		fmt.Fprintln(w, "NOTE\tNAME\tTYPE")
		for _, n := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.NoteID, n.Name, n.NoteType)
		}
	case *model.PerfumeSummary:
		writeTable(w, []model.PerfumeSummary{*v})
	case []model.PerfumeSummary:
		fmt.Fprintln(w, "ID\tBRAND\tNAME\tIMAGE")
		for _, s := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Brand, s.Name, s.ImageURL)
		}
	case *model.User:
		writeTable(w, []model.User{*v})
	case []model.User:
		fmt.Fprintln(w, "ID\tEMAIL\tFIRST\tLAST\tNICKNAME\tROLE")
		for _, u := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, opt(u.Nickname), opt(u.Role))
		}
	case *model.AuthResult:
		fmt.Fprintf(w, "User\t%s\n", v.User.ID)
		fmt.Fprintf(w, "Email\t%s\n", v.User.Email)
		fmt.Fprintf(w, "Admin\t%t\n", v.IsAdmin)
		fmt.Fprintf(w, "Super admin\t%t\n", v.IsSuperAdmin)
	case *model.Comment:
		writeTable(w, []model.Comment{*v})
	case []model.Comment:
		fmt.Fprintln(w, "ID\tUSER\tPERFUME\tPARENT\tRATING\tCONTENT")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.UserID, c.PerfumeID, opt(c.ParentCommentID), opt(c.Rating), c.Content)
		}
	case model.DeleteReport:
		fmt.Fprintf(w, "removed\t%d\n", v.Removed)
		if v.NoteLinks > 0 {
			fmt.Fprintf(w, "note links\t%d\n", v.NoteLinks)
		}
		if v.Favorites > 0 {
			fmt.Fprintf(w, "favorites\t%d\n", v.Favorites)
		}
		if v.Comments > 0 {
			fmt.Fprintf(w, "comments\t%d\n", v.Comments)
		}
	case []migrate.Status:
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED\tSOURCE")
		for _, s := range v {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.State, applied, s.Source)
		}
	case nil:
	default:
		fmt.Fprintln(w, v)
	}
}

// message is a plain confirmation for commands without a record to show.
type message struct {
	Status string `json:"status"`
	Count  *int64 `json:"count,omitempty"`
}

func (m message) String() string {
	if m.Count != nil {
		return fmt.Sprintf("%s (%d)", m.Status, *m.Count)
	}
	return m.Status
}
