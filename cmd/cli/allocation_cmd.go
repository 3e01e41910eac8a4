package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

var allocationFields = []fieldFlag{
	{"employee", form.FieldAssigneeName, "Assignee, an existing employee name"},
	{"project", form.FieldProjectName, "Project name"},
	{"start", form.FieldAllocStart, "Allocation start date (YYYY-MM-DD)"},
	{"end", form.FieldAllocEnd, "Allocation end date (YYYY-MM-DD), empty clears it"},
	{"percentage", form.FieldPercentage, "Share of the assignee's time, 0-100 (needs FLAG_EDITABLE_PERCENTAGE)"},
	{"active", form.FieldIsActive, "Whether the allocation is active (true/false)"},
}

func newAllocationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "allocation",
		Aliases: []string{"allocations", "alloc"},
		Short:   "Manage allocations of employees to projects",
	}
	cmd.AddCommand(
		listCmd(a, domain.KindAllocation, printAllocations),
		getCmd(a, domain.KindAllocation, printAllocations),
		newAllocationSearchCmd(a),
		newAllocationForCmd(a),
		newAllocationCreateCmd(a),
		newAllocationUpdateCmd(a),
		newAllocationDeleteCmd(a),
	)
	return cmd
}

func newAllocationSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <partial assignee name>",
		Short: "List allocations whose assignee matches a partial name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			var recs []domain.Allocation
			req := gateway.Request{Kind: domain.KindAllocation, Action: domain.GetAllByName, Qualifier: args[0]}
			if err := c.Invoke(cmd.Context(), req, &recs); err != nil {
				return err
			}
			printAllocations(a.out, recs)
			return nil
		},
	}
}

func newAllocationForCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "for <employee name>",
		Short: "List the allocations of one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			m := lifecycle.NewAllocationManager(a.deps(c))
			recs, err := m.NewUpdate().ListByEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAllocations(a.out, recs)
			return nil
		},
	}
}

func newAllocationCreateCmd(a *app) *cobra.Command {
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Allocate an employee to a project; you are recorded as the allocator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			create, err := lifecycle.NewAllocationManager(a.deps(c)).NewCreate(cmd.Context())
			if err != nil {
				return err
			}
			if err := applyFields(cmd, allocationFields, vals, create.SetField); err != nil {
				return err
			}
			msg, err := create.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	vals = bindFields(cmd, allocationFields)
	return cmd
}

func newAllocationUpdateCmd(a *app) *cobra.Command {
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Load an allocation and change the given fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			allocID, err := form.ParseID("Allocation ID", args[0])
			if err != nil {
				return err
			}
			c, err := a.client(true)
			if err != nil {
				return err
			}
			u := lifecycle.NewAllocationManager(a.deps(c)).NewUpdate()
			if _, err := u.LoadByID(cmd.Context(), allocID); err != nil {
				return err
			}
			if err := applyFields(cmd, allocationFields, vals, u.SetField); err != nil {
				return err
			}
			msg, err := u.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	vals = bindFields(cmd, allocationFields)
	return cmd
}

// newAllocationDeleteCmd previews the active allocations of one employee or
// project, then deletes all of them or the one named by --id.
func newAllocationDeleteCmd(a *app) *cobra.Command {
	var employee, project string
	var single int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the active allocations of an employee or a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, name := lifecycle.ByEmployeeName, employee
			switch {
			case employee != "" && project != "":
				return withCode(exitUsage, errors.New("use either --employee or --project, not both"))
			case project != "":
				filter, name = lifecycle.ByProjectName, project
			case employee == "":
				return withCode(exitUsage, errors.New("one of --employee or --project is required"))
			}

			c, err := a.client(true)
			if err != nil {
				return err
			}
			del := lifecycle.NewAllocationManager(a.deps(c)).NewDelete()
			recs, err := del.Load(cmd.Context(), filter, name)
			if err != nil {
				return err
			}
			printAllocations(a.out, recs)

			sel := lifecycle.SelectAll()
			if cmd.Flags().Changed("id") {
				sel = lifecycle.SelectID(single)
			}
			if err := del.Select(sel); err != nil {
				return err
			}
			question, err := del.Prompt()
			if err != nil {
				return err
			}
			decision, err := a.confirm(question)
			if err != nil {
				return err
			}
			msg, err := del.Confirm(cmd.Context(), decision)
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
	cmd.Flags().StringVar(&employee, "employee", "", "Employee whose allocations to delete")
	cmd.Flags().StringVar(&project, "project", "", "Project whose allocations to delete")
	cmd.Flags().Int64Var(&single, "id", 0, "Delete only this allocation from the preview")
	return cmd
}
