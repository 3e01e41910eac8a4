package main

import (
	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/form"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

var employeeFields = []fieldFlag{
	{"name", form.FieldName, "Full name"},
	{"email", form.FieldEmail, "Email address, also the login"},
	{"role", form.FieldRoleName, "Role name"},
	{"joined", form.FieldDateOfJoining, "Date of joining (YYYY-MM-DD)"},
	{"active", form.FieldIsActive, "Whether the employee is active (true/false)"},
	{"admin", form.FieldIsAdmin, "Whether the employee is an administrator (true/false)"},
}

func newEmployeeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"employees", "emp"},
		Short:   "Manage employees",
	}
	cmd.AddCommand(
		listCmd(a, domain.KindEmployee, printEmployees),
		getCmd(a, domain.KindEmployee, printEmployees),
		searchCmd(a, domain.KindEmployee),
		newEmployeeRegisterCmd(a),
		newEmployeeUpdateCmd(a),
		recordDeleteCmd(a, domain.KindEmployee),
		newEmployeeRolesCmd(a),
		newEmployeeNamesCmd(a),
	)
	return cmd
}

func newEmployeeRegisterCmd(a *app) *cobra.Command {
	specs := append(employeeFields[:len(employeeFields):len(employeeFields)],
		fieldFlag{"password", form.FieldPassword, "Initial password (prompted when omitted)"})
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new employee together with a login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			draft := form.NewEmployeeDraft()
			if err := applyFields(cmd, specs, vals, draft.SetField); err != nil {
				return err
			}
			if !cmd.Flags().Changed("password") {
				pw, err := a.readLine("Password")
				if err != nil {
					return err
				}
				if err := draft.SetField(form.FieldPassword, pw); err != nil {
					return err
				}
			}
			msg, err := lifecycle.NewEmployeeManager(a.deps(c)).Register(cmd.Context(), draft)
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	vals = bindFields(cmd, specs)
	return cmd
}

func newEmployeeUpdateCmd(a *app) *cobra.Command {
	var vals fieldValues
	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Load an employee and change the given fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			m := lifecycle.NewEmployeeManager(a.deps(c))
			draft := form.NewEmployeeDraft()
			if isID(args[0]) {
				_, err = m.LoadByID(cmd.Context(), args[0], draft)
			} else {
				_, err = m.LoadByName(cmd.Context(), args[0], draft)
			}
			if err != nil {
				return err
			}
			if err := applyFields(cmd, employeeFields, vals, draft.SetField); err != nil {
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
	vals = bindFields(cmd, employeeFields)
	return cmd
}

func newEmployeeRolesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the role names in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			var roles []string
			if err := c.Invoke(cmd.Context(), gateway.Request{Kind: domain.KindEmployee, Action: domain.GetRoles}, &roles); err != nil {
				return err
			}
			for _, r := range roles {
				a.printf("%s\n", r)
			}
			return nil
		},
	}
}

// newEmployeeNamesCmd prints the employee directory, refreshing the cache.
func newEmployeeNamesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List every employee name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			names, err := a.directory(c).Refresh(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				a.printf("%s\n", n)
			}
			return nil
		},
	}
}
