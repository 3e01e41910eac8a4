package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

func table(out io.Writer, header []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	_ = w.Flush()
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func printEmployees(out io.Writer, recs []domain.Employee) {
	rows := make([][]string, len(recs))
	for i, e := range recs {
		rows[i] = []string{id(e.ID), e.Name, e.Email, e.RoleName, e.DateOfJoining, yes(e.IsActive), yes(e.IsAdmin)}
	}
	table(out, []string{"ID", "NAME", "EMAIL", "ROLE", "JOINED", "ACTIVE", "ADMIN"}, rows)
}

func printProjects(out io.Writer, recs []domain.Project) {
	rows := make([][]string, len(recs))
	for i, p := range recs {
		rows[i] = []string{id(p.ID), p.ProjectName, p.OwnerName, p.StartDate, p.EndDate, yes(p.IsActive)}
	}
	table(out, []string{"ID", "NAME", "OWNER", "START", "END", "ACTIVE"}, rows)
}

func printAllocations(out io.Writer, recs []domain.Allocation) {
	rows := make([][]string, len(recs))
	for i, a := range recs {
		rows[i] = []string{
			id(a.ID), a.AssigneeName, a.ProjectName, a.StartDate, a.EndDate,
			strconv.Itoa(a.Percentage) + "%", a.AllocatorName, yes(a.IsActive),
		}
	}
	table(out, []string{"ID", "ASSIGNEE", "PROJECT", "START", "END", "SHARE", "ALLOCATOR", "ACTIVE"}, rows)
}

func printFields(out io.Writer, fields []domain.Field) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(w, "%s:\t%s\n", f.Label, f.Value)
	}
	_ = w.Flush()
}

func printNames(out io.Writer, refs []domain.NameRef) {
	rows := make([][]string, len(refs))
	for i, r := range refs {
		rows[i] = []string{id(r.ID), r.Name}
	}
	table(out, []string{"ID", "NAME"}, rows)
}
