package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhishek-2k23/Todo-RN/client/session"
	"github.com/spf13/cobra"
)

// readPassword returns flagValue, or the first line of in when it is empty.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func newRegisterCmd(c *cli) *cobra.Command {
	var username, name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" && name == "" {
				return errors.New("--username or --name is required")
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			s, err := c.app.session.Register(cmd.Context(), name, username, email, pw)
			if errors.Is(err, session.ErrDuplicateAccount) {
				return errors.New("an account with that email or username already exists")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Registered and logged in as %s\n", displayName(s.UserData.Username, s.UserData.Name))

			// The server seeds default categories after the account is
			// created, so they may not be visible yet.
			if err := c.app.tasks.RefreshCategories(cmd.Context()); err != nil {
				c.app.log.Warn().Err(err).Msg("could not load categories")
			} else if len(c.app.store.Categories()) == 0 {
				fmt.Fprintln(out, "Default categories are still being set up; run `todo categories` in a moment to see them.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("Failed to mark email flag as required: %v", err))
	}
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			s, err := c.app.session.Login(cmd.Context(), args[0], pw)
			if errors.Is(err, session.ErrInvalidCredentials) {
				return errors.New("invalid credentials")
			}
			if err != nil {
				return err
			}

			if err := c.app.tasks.Refresh(cmd.Context()); err != nil {
				c.app.log.Warn().Err(err).Msg("could not load todos")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", displayName(s.UserData.Username, s.UserData.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			u := c.app.store.UserData()
			if refresh || u == nil {
				fetched, err := c.app.api.Me(cmd.Context())
				if err != nil {
					return err
				}
				u = fetched
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", u.Username)
			if u.Name != "" {
				fmt.Fprintf(out, "Name:     %s\n", u.Name)
			}
			fmt.Fprintf(out, "Email:    %s\n", u.Email)
			fmt.Fprintf(out, "ID:       %s\n", u.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the profile from the server")
	return cmd
}

func displayName(username, name string) string {
	if username != "" {
		return username
	}
	return name
}
