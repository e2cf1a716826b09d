package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/vidaplena/portal-session/config"
	"github.com/vidaplena/portal-session/internal/bootstrap"
	"github.com/vidaplena/portal-session/internal/domain/routing"
	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/ports"
	"github.com/vidaplena/portal-session/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger(false)

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"status": {
			name:        "status",
			description: "Show the current session, validated against the portal",
			run:         runStatus,
		},
		"login": {
			name:        "login",
			description: "Sign in with portal credentials and persist the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Clear the persisted session",
			run:         runLogout,
		},
		"plan": {
			name:        "plan",
			description: "Print the canonical landing path for the current session",
			run:         runPlan,
		},
		"gate": {
			name:        "gate",
			description: "Evaluate a route's access requirements against the current session",
			run:         runGate,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: portal-session <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(os.Stdout, "  %-10s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// buildRuntime wires the session core for a command invocation.
func buildRuntime(ctx *commandContext) (*bootstrap.SessionRuntime, error) {
	return bootstrap.BuildSession(ctx.Config, ctx.Logger)
}

// restoreAndValidate establishes the session and waits for the server's
// confirmation. Unlike the portal shell, a CLI has no rendering to
// unblock, so it validates synchronously.
func restoreAndValidate(ctx *commandContext, runtime *bootstrap.SessionRuntime) domainsession.Session {
	snap := runtime.Manager.Bootstrap(ctx.Ctx)
	if snap.HasToken() {
		snap = runtime.Manager.Validate(ctx.Ctx)
	}
	return snap
}

func runStatus(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	cached := fs.Bool("cached", false, "show the stored snapshot without contacting the portal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	var snap domainsession.Session
	if *cached {
		snap = runtime.Manager.Bootstrap(ctx.Ctx)
	} else {
		snap = restoreAndValidate(ctx, runtime)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "status\t%s\n", snap.Status)
	if snap.HasToken() {
		if exp, ok := service.TokenExpiry(snap.Token); ok {
			fmt.Fprintf(w, "token expires\t%s\n", exp.Format("2006-01-02 15:04:05 MST"))
		} else {
			fmt.Fprintf(w, "token expires\tunknown (opaque token)\n")
		}
	}
	if snap.User != nil {
		fmt.Fprintf(w, "user\t%s (%s)\n", snap.User.Name, snap.User.ID)
		fmt.Fprintf(w, "role\t%s\n", snap.User.Role)
		if snap.User.HasAssignedLine() {
			fmt.Fprintf(w, "care line\t%s (#%d)\n", snap.User.CareLine, snap.User.AssignedLineID)
		} else {
			fmt.Fprintf(w, "care line\tnot triaged\n")
		}
		fmt.Fprintf(w, "profile complete\t%t\n", snap.User.HasCompleteProfile())
	}
	return w.Flush()
}

func runLogin(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account e-mail")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("login requires -email")
	}
	if *password == "" {
		pw, err := promptLine("password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	runtime, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	snap, target, err := runtime.Manager.Login(ctx.Ctx, ports.Credentials{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if writeErr := writef(os.Stdout, "signed in as %s (%s), landing path %s\n",
		snap.User.Name, snap.User.Role, target); writeErr != nil {
		return writeErr
	}
	return nil
}

func runLogout(ctx *commandContext, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("logout takes no arguments")
	}

	runtime, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	runtime.Manager.Logout(ctx.Ctx)
	return writef(os.Stdout, "session cleared\n")
}

func runPlan(ctx *commandContext, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("plan takes no arguments")
	}

	runtime, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	restoreAndValidate(ctx, runtime)
	return writef(os.Stdout, "%s\n", runtime.Manager.PlanRedirect())
}

func runGate(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("gate", flag.ContinueOnError)
	requireAdmin := fs.Bool("require-admin", false, "route requires the ADMIN role")
	requireProfile := fs.Bool("require-profile", false, "route requires a patient profile")
	requireLine := fs.Bool("require-line", false, "route requires an assigned care line")
	path := fs.String("path", "", "route path, for the navigation-correction pass")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runtime, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	snap := restoreAndValidate(ctx, runtime)
	view := routing.NewView(snap)

	decision := routing.Decide(view, routing.Requirements{
		RequireAdmin:          *requireAdmin,
		RequirePatientProfile: *requireProfile,
		RequireAssignedLine:   *requireLine,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	switch decision.Outcome {
	case routing.Render:
		fmt.Fprintf(w, "outcome\trender\n")
	case routing.Redirect:
		fmt.Fprintf(w, "outcome\tredirect\n")
		fmt.Fprintf(w, "target\t%s\n", decision.Target)
	case routing.ShowLoading:
		fmt.Fprintf(w, "outcome\tshow-loading\n")
	}

	if *path != "" {
		if corrected, ok := routing.CorrectNavigation(*path, view, snap.User); ok {
			fmt.Fprintf(w, "correction\t%s -> %s\n", *path, corrected)
		} else {
			fmt.Fprintf(w, "correction\tnone\n")
		}
	}
	return w.Flush()
}

func promptLine(prompt string) (string, error) {
	if err := writef(os.Stderr, "%s", prompt); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
