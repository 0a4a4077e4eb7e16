package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/spf13/cobra"
)

const shortIDLen = 8

// parseDue accepts a calendar date or an RFC 3339 timestamp.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

func parsePriority(s string) (model.Priority, error) {
	switch p := model.Priority(strings.ToLower(s)); p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q: use low, medium or high", s)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func printTask(w io.Writer, t model.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	details := []string{t.Category, string(t.Priority)}
	if t.DueDate != nil {
		details = append(details, "due "+t.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "[%s] %s  %s  (%s)\n", mark, shortID(t.ID), t.Title, strings.Join(details, ", "))
	if t.Description != "" {
		fmt.Fprintf(w, "      %s\n", t.Description)
	}
}

func newListCmd(c *cli) *cobra.Command {
	var category string
	var offline bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			if !offline {
				if err := c.app.tasks.Refresh(cmd.Context()); err != nil {
					if !apiclient.IsTransport(err) {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s Showing saved todos.\n", describeError(err))
				}
			}

			c.app.store.SetSelectedCategory(category)
			tasks := c.app.store.VisibleTasks()
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No todos found.")
				return nil
			}
			for _, t := range tasks {
				printTask(out, t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", model.AllCategories, "Only show this category")
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the saved todos without contacting the server")
	return cmd
}

func newAddCmd(c *cli) *cobra.Command {
	var description, category, priority, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}

			req := apiclient.CreateTodoRequest{
				Title:       strings.Join(args, " "),
				Description: description,
				Category:    category,
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = p
			}
			if due != "" {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				req.DueDate = &d
			}

			t, err := c.app.tasks.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", shortID(t.ID))
			printTask(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (default Other)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD")
	return cmd
}

// newDoneCmd builds "done" when completed is true and "undo" otherwise.
func newDoneCmd(c *cli, completed bool) *cobra.Command {
	use, short, verb := "done <id>", "Mark a todo completed", "Completed"
	if !completed {
		use, short, verb = "undo <id>", "Mark a todo not completed", "Reopened"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			t, err := c.app.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			updated, err := c.app.tasks.SetCompleted(cmd.Context(), t.ID, completed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s\n", verb, shortID(updated.ID))
			return nil
		},
	}
}

func newEditCmd(c *cli) *cobra.Command {
	var title, description, category, priority, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			t, err := c.app.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var req apiclient.UpdateTodoRequest
			flags := cmd.Flags()
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("category") {
				req.Category = &category
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = &p
			}
			switch {
			case clearDue:
				req.ClearDueDate = true
			case flags.Changed("due"):
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				req.DueDate = &d
			}

			updated, err := c.app.tasks.Update(cmd.Context(), t.ID, req)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "New due date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.requireLogin(); err != nil {
				return err
			}
			t, err := c.app.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.app.tasks.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", shortID(t.ID))
			return nil
		},
	}
}
