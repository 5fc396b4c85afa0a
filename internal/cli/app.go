package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/aussiebroadwan/questrade/pkg/cryptox"
	"github.com/aussiebroadwan/questrade/pkg/qtsdk"
	"github.com/aussiebroadwan/questrade/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application runs one command against the API and renders the result.
type Application struct {
	cfg    Config
	logger *slog.Logger
	au     aurora.Aurora
	client *qtsdk.SDKClient

	stdout io.Writer
	stderr io.Writer
}

// New creates an Application writing results to stdout and diagnostics to
// stderr.
func New(cfg Config, stdout, stderr io.Writer) *Application {
	client := qtsdk.NewSDKClient(cfg.LoginURL)
	if cfg.HTTPTimeout > 0 {
		client.HTTPClient.Timeout = cfg.HTTPTimeout
	}

	return &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "questrade",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  stderr,
		}),
		au:     aurora.NewAurora(!cfg.NoColor),
		client: client,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the command named by args and returns the process exit code.
func (app *Application) Run(ctx context.Context, args []string) int {
	ctx = slogx.WithContext(ctx, app.logger)

	global := flag.NewFlagSet("questrade", flag.ContinueOnError)
	global.SetOutput(app.stderr)
	raw := global.Bool("raw", false, "print the response body without validation")
	global.Usage = app.usage

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		app.usage()
		return 2
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		app.fail(fmt.Errorf("unknown command %q", name))
		app.usage()
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	run := cmd.bind(fs)
	if err := fs.Parse(global.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	session, err := app.client.NewSession(ctx, app.cfg.Credentials())
	if err != nil {
		app.fail(err)
		return 1
	}
	before := session.RefreshToken()

	out, err := run(ctx, session, *raw)
	app.noticeRotation(ctx, before, session)
	if err != nil {
		app.fail(err)
		return 1
	}

	if err := app.render(out); err != nil {
		app.fail(err)
		return 1
	}
	return 0
}

func (app *Application) render(v any) error {
	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// noticeRotation tells the user when the refresh token in their environment
// is no longer valid. Refresh tokens are single-use, so the configured one
// stops working once the session refreshes.
func (app *Application) noticeRotation(ctx context.Context, before string, session *qtsdk.Session) {
	configured := app.cfg.RefreshToken
	current := session.RefreshToken()
	if configured == "" || current == configured {
		return
	}

	slogx.FromContext(ctx).Info("questrade_refresh_token_rotated",
		"old_fp", cryptox.FingerprintToken(configured),
		"new_fp", cryptox.FingerprintToken(current),
		"during_command", before != current,
	)
	fmt.Fprintf(app.stderr, "%s refresh token rotated, update QUESTRADE_REFRESH_TOKEN to %s\n",
		app.au.Bold(app.au.Yellow("notice:")), current)
}

// fail prints err highlighted, with a hint for the error kinds a user can act on.
func (app *Application) fail(err error) {
	fmt.Fprintf(app.stderr, "%s %v\n", app.au.Bold(app.au.Red("error:")), err)

	var (
		cfgErr   *qtsdk.ConfigurationError
		authErr  *qtsdk.AuthError
		fieldErr *qtsdk.FieldError
		reqErr   *qtsdk.RequestError
	)

	// A refresh failure joined to a non-401 response is not a token problem.
	tokenRejected := !errors.As(err, &reqErr) || reqErr.StatusCode == http.StatusUnauthorized

	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(app.stderr, "%s check the flags and QUESTRADE_* environment variables\n", app.au.Cyan("hint:"))
	case tokenRejected && errors.Is(err, qtsdk.ErrNoRefreshToken):
		fmt.Fprintf(app.stderr, "%s the access token expired; set QUESTRADE_REFRESH_TOKEN\n", app.au.Cyan("hint:"))
	case tokenRejected && errors.As(err, &authErr):
		fmt.Fprintf(app.stderr, "%s the refresh token was rejected; generate a new one in the API hub\n", app.au.Cyan("hint:"))
	case errors.As(err, &fieldErr):
		fmt.Fprintf(app.stderr, "%s the %s response changed shape; rerun with -raw\n", app.au.Cyan("hint:"), fieldErr.Kind)
	case errors.Is(err, qtsdk.ErrMalformedResponse):
		fmt.Fprintf(app.stderr, "%s the response could not be decoded; rerun with -raw\n", app.au.Cyan("hint:"))
	}
}

func (app *Application) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: questrade [-raw] <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-11s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nrun 'questrade <command> -h' for command flags\n")
	fmt.Fprint(app.stderr, b.String())
}
