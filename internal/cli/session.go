package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mentordoc/client/internal/app"
	"mentordoc/client/internal/logging"
	"mentordoc/client/internal/model"
	"mentordoc/client/internal/state"
	"mentordoc/client/internal/view"
)

// alertTarget routes the alerts of CLI requests to the command's output.
const alertTarget = "cli"

const successLifespan = 5 * time.Second

type environment struct {
	load  ConfigLoader
	flags *globalFlags
}

// session is one command's connection to the client.
type session struct {
	ctx    context.Context
	client *app.Client
	alerts *view.AlertList
	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

func (e *environment) open(cmd *cobra.Command) (*session, error) {
	cfg, err := e.load()
	if err != nil {
		return nil, err
	}
	cfg = e.flags.apply(cfg)

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	alerts := view.NewAlertList(alertTarget)
	alerts.Mount(client.API.Store)
	return &session{
		ctx:    ctx,
		client: client,
		alerts: alerts,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		in:     cmd.InOrStdin(),
	}, nil
}

// with opens a session for the duration of fn.
func (e *environment) with(fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := e.open(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(s, args)
	}
}

// withSession is with for commands that need a signed-in user.
func (e *environment) withSession(fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return e.with(func(s *session, args []string) error {
		if err := s.client.RequireSession(); err != nil {
			return err
		}
		return fn(s, args)
	})
}

func (s *session) close() {
	s.alerts.Unmount()
	s.client.Close()
}

func (s *session) state() state.RootState {
	return s.client.State()
}

func request() model.Request {
	return model.Targeted(alertTarget)
}

// run executes an action and prints the alerts it raised. A recorded
// failure has been printed by the time it is returned as ErrReported.
func run[P any](s *session, action app.Runner[P], req P) error {
	err := app.Run(s.ctx, s.client, action, req)
	s.flush()
	var actionErr *app.ActionError
	if errors.As(err, &actionErr) {
		return ErrReported
	}
	return err
}

func (s *session) success(format string, args ...any) {
	s.client.API.Store.Dispatch(state.AddAlert.Action(model.Alert{
		Type:     model.AlertSuccess,
		Message:  fmt.Sprintf(format, args...),
		Lifespan: successLifespan,
		Target:   alertTarget,
	}))
	s.flush()
}

// flush prints and dismisses the alerts shown so far.
func (s *session) flush() {
	root := s.state()
	s.alerts.Render(s.errOut, root)
	for _, alert := range s.alerts.Visible(root) {
		s.alerts.Dismiss(alert)
	}
}

// organization returns the selected organization, or the one named by id.
func (s *session) organization(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	current, err := s.client.CurrentOrganization(s.ctx, request())
	if err != nil {
		s.flush()
		var actionErr *app.ActionError
		if errors.As(err, &actionErr) {
			return "", ErrReported
		}
		return "", err
	}
	return current.Model.ID, nil
}

// readLine prompts on errOut and reads one line from in.
func (s *session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.errOut, prompt)
	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword is readLine with echo turned off when in is a terminal.
// Where echo cannot be controlled the input stays visible.
func (s *session) readPassword(prompt string) (string, error) {
	f, ok := s.in.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s.readLine(prompt)
	}
	restore, err := disableEcho(int(f.Fd()))
	if err != nil {
		return s.readLine(prompt)
	}
	defer restore()

	line, err := s.readLine(prompt)
	// the newline the user typed was not echoed
	fmt.Fprintln(s.errOut)
	return line, err
}

// readContent resolves --content and --file; "-" reads stdin. ok is false
// when neither was given.
func (s *session) readContent(content, file string) (string, bool, error) {
	switch {
	case content != "" && file != "":
		return "", false, errors.New("use either --content or --file, not both")
	case content != "":
		return content, true, nil
	case file == "-":
		data, err := io.ReadAll(s.in)
		if err != nil {
			return "", false, fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), true, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), true, nil
	default:
		return "", false, nil
	}
}
