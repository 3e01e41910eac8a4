package main

import (
	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

var projectFields = []fieldFlag{
	{"name", form.FieldProjectName, "Project name"},
	{"description", form.FieldDescription, "Short description"},
	{"owner", form.FieldOwnerName, "Owner, an existing employee name"},
	{"start", form.FieldStartDate, "Start date (YYYY-MM-DD)"},
	{"end", form.FieldEndDate, "End date (YYYY-MM-DD)"},
	{"active", form.FieldIsActive, "Whether the project is active (true/false)"},
}

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "proj"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		listCmd(a, domain.KindProject, printProjects),
		getCmd(a, domain.KindProject, printProjects),
		searchCmd(a, domain.KindProject),
		newProjectCreateCmd(a),
		newProjectUpdateCmd(a),
		recordDeleteCmd(a, domain.KindProject),
	)
	return cmd
}

func newProjectCreateCmd(a *app) *cobra.Command {
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project owned by an existing employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			draft := form.NewProjectDraft()
			if err := applyFields(cmd, projectFields, vals, draft.SetField); err != nil {
				return err
			}
			msg, err := lifecycle.NewProjectManager(a.deps(c)).Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	vals = bindFields(cmd, projectFields)
	return cmd
}

func newProjectUpdateCmd(a *app) *cobra.Command {
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Load a project by name and change the given fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			m := lifecycle.NewProjectManager(a.deps(c))
			draft := form.NewProjectDraft()
			if _, err := m.Load(cmd.Context(), args[0], draft); err != nil {
				return err
			}
			if err := applyFields(cmd, projectFields, vals, draft.SetField); err != nil {
				return err
			}
			msg, err := m.Update(cmd.Context(), draft)
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	vals = bindFields(cmd, projectFields)
	return cmd
}
