package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

func newLoginCmd(a *app) *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if creds.Email == "" {
				if creds.Email, err = a.readLine("Email"); err != nil {
					return err
				}
			}
			if creds.Password == "" {
				if creds.Password, err = a.readLine("Password"); err != nil {
					return err
				}
			}

			c, err := a.client(false)
			if err != nil {
				return err
			}
			sess, err := c.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			c = c.WithSession(sess)
			if d, err := c.Details(cmd.Context()); err == nil {
				sess.IsAdmin = d.IsAdmin
			}
			if name, err := lifecycle.NewAllocationManager(a.deps(c)).Allocator(cmd.Context()); err == nil {
				sess.Name = name
			} else {
				a.log.Debug("employee name unavailable", slog.String("error", err.Error()))
			}
			if err := saveSession(a.cfg.API.SessionFile, sess); err != nil {
				return err
			}
			a.printf("Logged in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(false)
			if err != nil {
				return err
			}
			if len(c.Session().Cookies) > 0 {
				if err := c.Logout(cmd.Context()); err != nil {
					a.log.Warn("server logout failed", slog.String("error", err.Error()))
				}
			}
			if err := clearSession(a.cfg.API.SessionFile); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			d, err := c.Details(cmd.Context())
			if err != nil {
				return err
			}
			fields := []domain.Field{{Label: "Email", Value: d.Email}}
			if name := c.Session().Name; name != "" {
				fields = append(fields, domain.Field{Label: "Name", Value: name})
			}
			fields = append(fields, domain.Field{Label: "Admin", Value: yes(d.IsAdmin)})
			printFields(a.out, fields)
			return nil
		},
	}
}

func newPasswordCmd(a *app) *cobra.Command {
	var oldPassword, newPassword string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the signed-in user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(true)
			if err != nil {
				return err
			}
			if oldPassword == "" {
				if oldPassword, err = a.readLine("Current password"); err != nil {
					return err
				}
			}
			if newPassword == "" {
				if newPassword, err = a.readLine("New password"); err != nil {
					return err
				}
			}
			msg, err := lifecycle.NewEmployeeManager(a.deps(c)).ChangePassword(cmd.Context(), oldPassword, newPassword)
			if err != nil {
				return err
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "Current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "New password")
	return cmd
}
