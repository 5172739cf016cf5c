package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/ytnotebook/ytnotebook/internal/client"
	"github.com/ytnotebook/ytnotebook/internal/config"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/localstate"
	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/workspace"
)

// app holds what every command needs. It is filled in lazily by setup and
// released by close.
type app struct {
	overrides config.ClientOverrides

	cfg    *config.ClientConfig
	log    *logger.Logger
	client *client.Client
	state  *localstate.Store
}

// run executes one command line.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ytnb",
		Short:         "Chat with the transcripts of YouTube videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.overrides.APIURL, "api-url", "", "backend base URL (env YTNB_API_URL)")
	flags.StringVar(&a.overrides.StateDir, "state-dir", "", "directory for the saved login (env YTNB_STATE_DIR)")
	flags.StringVar(&a.overrides.RequestTimeout, "timeout", "", "per-request timeout, e.g. 30s (env YTNB_REQUEST_TIMEOUT)")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level (env YTNB_LOG_LEVEL)")
	flags.StringVar(&a.overrides.EnvFile, "env-file", "", "path to a .env file")

	root.AddCommand(
		a.signupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.notebooksCmd(),
		a.newCmd(),
		a.openCmd(),
		a.sessionsCmd(),
		a.chatCmd(),
		a.describeCmd(),
		a.timestampsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClientConfig(a.overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.LogLevel),
		Environment: cfg.Environment,
		Writer:      cmd.ErrOrStderr(),
	})

	a.client, err = client.New(client.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            a.log,
	})
	if err != nil {
		return err
	}

	a.state, err = localstate.Open(cfg.StateDir, a.log)
	return err
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.state != nil {
		if err := a.state.Close(); err != nil {
			a.log.Warn("failed to close local state", "error", err)
		}
	}
}

// workspace returns the coordinator for the saved login.
func (a *app) workspace() (*workspace.Workspace, error) {
	identity, err := a.state.Load()
	if errors.Is(err, localstate.ErrNotLoggedIn) {
		return nil, errors.New("not logged in; run `ytnb login` first")
	}
	if err != nil {
		return nil, err
	}
	return workspace.New(a.client, identity, a.log)
}

// open loads the notebook list and opens the notebook named by ref, an id
// or an unambiguous piece of its title.
func (a *app) open(ctx context.Context, ref string) (*workspace.Workspace, workspace.Selection, error) {
	w, err := a.workspace()
	if err != nil {
		return nil, workspace.Selection{}, err
	}
	sel, err := resolveNotebook(ctx, w, ref)
	if err != nil {
		return nil, workspace.Selection{}, err
	}
	return w, sel, nil
}

func resolveNotebook(ctx context.Context, w *workspace.Workspace, ref string) (workspace.Selection, error) {
	if _, err := w.LoadNotebooks(ctx); err != nil {
		return workspace.Selection{}, userError(err)
	}
	if sel, err := w.Directory.Select(ref); err == nil {
		return sel, nil
	}

	matches := w.Directory.Filter(ref)
	switch len(matches) {
	case 0:
		return workspace.Selection{}, errors.New("no notebook matches " + quote(ref))
	case 1:
		return w.Directory.Select(matches[0].ID)
	default:
		return workspace.Selection{}, errors.New(quote(ref) + " matches more than one notebook; use its id")
	}
}

// userError replaces backend and transport errors with the text a user
// should see.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var ce *client.Error
	if errors.As(err, &ce) || errors.Is(err, client.ErrTransport) {
		return errors.New(client.Detail(err))
	}
	return err
}

func quote(s string) string {
	return `"` + s + `"`
}

func identityLabel(id domain.Identity) string {
	if id.UserName == "" {
		return id.UserID
	}
	return id.UserName + " (" + id.UserID + ")"
}
