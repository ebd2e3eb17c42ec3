// Command notesctl is a terminal client for the notepad API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/baechuer/notepad-service/pkg/client"
)

const usage = `usage: notesctl <command> [flags]

commands:
  register -name N -email E -phone P [-password X]
  login    -email E [-password X]
  logout
  list
  add      <content...>      (or "-" to read stdin)
  edit     <id> <content...> (or "-" to read stdin)
  rm       <id>

environment:
  NOTESCTL_API_URL     API base url (default http://localhost:5000)
  NOTESCTL_TOKEN_FILE  where the login token is kept
  NOTESCTL_TIMEOUT     request timeout (default 10s)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(2)
	}

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, cfg Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	app := &app{
		api:    client.New(cfg.APIURL, client.WithHTTPClient(newHTTPClient(cfg.Timeout))),
		tokens: tokenStore{path: cfg.TokenFile},
		stdin:  stdin,
		stdout: stdout,
	}

	cmd, ok := app.commands()[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "notesctl: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:]); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "notesctl %s: %s\n", args[0], ue.msg)
			return 2
		}
		fmt.Fprintf(stderr, "notesctl %s: %s\n", args[0], describe(err))
		return 1
	}
	return 0
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// describe turns API errors into the server's own message.
func describe(err error) string {
	var ae *client.APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if errors.Is(err, client.ErrNotLoggedIn) {
		return "not logged in, run: notesctl login"
	}
	return err.Error()
}
