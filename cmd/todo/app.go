package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/abhishek-2k23/Todo-RN/client/persist"
	"github.com/abhishek-2k23/Todo-RN/client/reconcile"
	"github.com/abhishek-2k23/Todo-RN/client/session"
	"github.com/abhishek-2k23/Todo-RN/client/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app is the client composed for one command invocation.
type app struct {
	cfg     clientConfig
	log     zerolog.Logger
	api     *apiclient.Client
	store   *store.Store
	session *session.Manager
	tasks   *reconcile.Controller
	close   func() error
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

func openKV(cfg clientConfig) (persist.KV, func() error, error) {
	if cfg.RedisAddr != "" {
		rs := persist.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.RedisPrefix, 0)
		return rs, rs.Close, nil
	}
	fs, err := persist.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() error { return nil }, nil
}

// newApp wires the client and restores the persisted session.
func newApp(ctx context.Context, cfg clientConfig, stderr io.Writer) (*app, error) {
	log := newLogger(stderr, cfg.Verbose)

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return nil, err
	}

	api := apiclient.New(cfg.APIURL, apiclient.WithLogger(log))
	st := store.New(store.WithLogger(log))
	bridge := persist.NewBridge(kv, log)

	a := &app{
		cfg:     cfg,
		log:     log,
		api:     api,
		store:   st,
		session: session.NewManager(api, bridge, st, log),
		tasks:   reconcile.New(api, st, bridge, log),
		close:   closeKV,
	}
	a.session.Restore(ctx)
	return a, nil
}

// requireLogin fails unless a session token is present.
func (a *app) requireLogin() error {
	if session.InitialRoute(a.session.Current()) != session.RouteHome {
		return fmt.Errorf("not logged in; run `todo login` first")
	}
	return nil
}

// resolveTask finds a task by full id or unique id prefix.
func (a *app) resolveTask(ref string) (model.Task, error) {
	if t, ok := a.store.Task(ref); ok {
		return t, nil
	}
	var matches []model.Task
	for _, t := range a.store.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", reconcile.ErrUnknownTask, ref)
	case 1:
		return matches[0], nil
	}
	return model.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
}

// findTask resolves ref against the saved tasks, refreshing from the server
// once when nothing matches.
func (a *app) findTask(ctx context.Context, ref string) (model.Task, error) {
	t, err := a.resolveTask(ref)
	if !errors.Is(err, reconcile.ErrUnknownTask) {
		return t, err
	}
	if rerr := a.tasks.Refresh(ctx); rerr != nil {
		return model.Task{}, rerr
	}
	return a.resolveTask(ref)
}

// resolveCategory finds a category by id or case-insensitive name.
func (a *app) resolveCategory(ref string) (model.Category, error) {
	for _, c := range a.store.Categories() {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("unknown category %q", ref)
}

// describeError turns a client error into a line for the terminal.
func describeError(err error) string {
	switch apiclient.KindOf(err) {
	case apiclient.KindTimeout:
		return "Request timeout. Please check your internet connection."
	case apiclient.KindNetworkUnreachable:
		return "Network error. Could not connect to the server."
	case apiclient.KindUnauthorized:
		return "Session expired. Please login again."
	case apiclient.KindServerError:
		return "Something went wrong on the server. Please try again later."
	case apiclient.KindValidationError:
		var b strings.Builder
		b.WriteString(err.Error())
		if fields := fieldsOf(err); len(fields) > 0 {
			for _, k := range sortedKeys(fields) {
				fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
			}
		}
		return b.String()
	}
	return err.Error()
}
