package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			if err := c.app.tasks.RefreshCategories(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cats := c.app.store.Categories()
			if len(cats) == 0 {
				fmt.Fprintln(out, "No categories yet.")
			}
			for _, cat := range cats {
				fmt.Fprintf(out, "%s  %s\n", shortID(cat.ID), cat.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a category",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.requireLogin(); err != nil {
					return err
				}
				cat, err := c.app.tasks.AddCategory(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Created category %s\n", cat.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <id-or-name> <new-name>",
			Short: "Rename a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.requireLogin(); err != nil {
					return err
				}
				if err := c.app.tasks.RefreshCategories(cmd.Context()); err != nil {
					return err
				}
				cat, err := c.app.resolveCategory(args[0])
				if err != nil {
					return err
				}
				renamed, err := c.app.tasks.RenameCategory(cmd.Context(), cat.ID, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", cat.Name, renamed.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id-or-name>",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.requireLogin(); err != nil {
					return err
				}
				if err := c.app.tasks.RefreshCategories(cmd.Context()); err != nil {
					return err
				}
				cat, err := c.app.resolveCategory(args[0])
				if err != nil {
					return err
				}
				if err := c.app.tasks.RemoveCategory(cmd.Context(), cat.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted category %s\n", cat.Name)
				return nil
			},
		},
	)
	return cmd
}
