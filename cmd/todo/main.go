// Command todo is a terminal client for the todo API. It keeps a local copy
// of the session and task list so it starts without the network.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	app        *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Manage your todos from the terminal",
		Long: `todo talks to the todo API and keeps a local copy of your session and tasks.

Configuration is read from --config (default ~/.todo/config.yaml), TODO_*
environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipApp"] == "true" {
				return nil
			}
			cfg, err := loadConfig(c.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Config file (default ~/.todo/config.yaml)")
	flags.String("api-url", "", "API base URL (env TODO_API_URL)")
	flags.String("state-dir", "", "Directory for the local state (env TODO_STATE_DIR)")
	flags.String("redis", "", "Keep local state in Redis at this address (env TODO_REDIS_ADDR)")
	flags.BoolP("verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		newRegisterCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newListCmd(c),
		newAddCmd(c),
		newDoneCmd(c, true),
		newDoneCmd(c, false),
		newEditCmd(c),
		newRemoveCmd(c),
		newCategoriesCmd(c),
		newActivityCmd(c),
		newConfigCmd(c),
	)
	return root
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describeError(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func fieldsOf(err error) map[string]string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
