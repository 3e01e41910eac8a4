package main

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
	"github.com/aryan0dhankhar/allocdesk/internal/resolver"
)

// fieldFlag binds one command-line flag to one draft field.
type fieldFlag struct {
	flag  string
	field string
	usage string
}

type fieldValues map[string]*string

func bindFields(cmd *cobra.Command, specs []fieldFlag) fieldValues {
	vals := make(fieldValues, len(specs))
	for _, s := range specs {
		vals[s.flag] = cmd.Flags().String(s.flag, "", s.usage)
	}
	return vals
}

// applyFields feeds every flag the user set into set, in declaration order.
func applyFields(cmd *cobra.Command, specs []fieldFlag, vals fieldValues, set func(field, value string) error) error {
	for _, s := range specs {
		if !cmd.Flags().Changed(s.flag) {
			continue
		}
		if err := set(s.field, *vals[s.flag]); err != nil {
			return err
		}
	}
	return nil
}

// isID reports whether arg should be treated as a record id rather than a name.
func isID(arg string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	return err == nil && n > 0
}

func listCmd[T any](a *app, kind domain.Kind, print func(io.Writer, []T)) *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + kind.String() + " records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			action := domain.GetAll
			if active {
				action = domain.GetAllActive
			}
			var recs []T
			if err := c.Invoke(cmd.Context(), gateway.Request{Kind: kind, Action: action}, &recs); err != nil {
				return err
			}
			print(a.out, recs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "Only active records")
	return cmd
}

func getCmd[T interface{ Empty() bool }](a *app, kind domain.Kind, print func(io.Writer, []T)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show one " + kind.String() + " by id or exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			req := gateway.Request{Kind: kind, Action: domain.GetByName, Qualifier: strings.TrimSpace(args[0])}
			if isID(args[0]) {
				req.Action = domain.GetByID
			}
			var rec T
			if err := c.Invoke(cmd.Context(), req, &rec); err != nil {
				return err
			}
			if rec.Empty() {
				return withCode(exitNotFound, errors.New(kind.Title()+" not found"))
			}
			print(a.out, []T{rec})
			return nil
		},
	}
}

// searchCmd runs the typeahead lookup the update forms use.
func searchCmd(a *app, kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "search <partial name>",
		Short: "Suggest " + kind.String() + " names matching a partial name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			t := resolver.NewTypeahead(resolver.New(c, a.log), kind)
			s, err := t.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(s.Items) == 0 {
				a.printf("No matches for %q\n", s.Query)
				return nil
			}
			printNames(a.out, s.Items)
			return nil
		},
	}
}

// recordDeleteCmd previews an employee or project, asks, then deletes it.
func recordDeleteCmd(a *app, kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete one " + kind.String() + " after showing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			rd, err := lifecycle.NewRecordDeleter(a.deps(c), kind)
			if err != nil {
				return withCode(exitUsage, err)
			}
			var summary []domain.Field
			if isID(args[0]) {
				summary, err = rd.PreviewByID(cmd.Context(), args[0])
			} else {
				summary, err = rd.PreviewByName(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			printFields(a.out, summary)

			question, err := rd.Prompt()
			if err != nil {
				return err
			}
			decision, err := a.confirm(question)
			if err != nil {
				return err
			}
			msg, err := rd.Confirm(cmd.Context(), decision)
			if err != nil {
				return err
			}
			if decision == lifecycle.Cancel {
				a.printf("Cancelled\n")
				return nil
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
}
