package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/baechuer/notepad-service/pkg/client"
)

type command func(ctx context.Context, args []string) error

type app struct {
	api    *client.Client
	tokens tokenStore
	stdin  io.Reader
	stdout io.Writer
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"register": a.register,
		"login":    a.login,
		"logout":   a.logout,
		"list":     a.list,
		"add":      a.add,
		"edit":     a.edit,
		"rm":       a.remove,
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{msg: err.Error()}
	}
	return nil
}

func (a *app) readLine() (string, error) {
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// passwordOrStdin keeps passwords out of shell history when -password is omitted.
func (a *app) passwordOrStdin(pw string) (string, error) {
	if pw != "" {
		return pw, nil
	}
	fmt.Fprint(a.stdout, "password: ")
	return a.readLine()
}

// content joins positional args, or reads all of stdin for "-".
func (a *app) content(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
	return strings.Join(args, " "), nil
}

func (a *app) authed() error {
	tok, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.api.SetToken(tok)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := a.passwordOrStdin(*password)
	if err != nil {
		return err
	}

	msg, err := a.api.Register(ctx, client.RegisterInput{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Password: pw,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := a.passwordOrStdin(*password)
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(a.stdout, "logged in as %s\n", res.UserID)
	return nil
}

func (a *app) logout(_ context.Context, args []string) error {
	if len(args) > 0 {
		return usageError{msg: "logout takes no arguments"}
	}
	had, err := a.tokens.Delete()
	if err != nil {
		return err
	}
	a.api.Logout()
	if had {
		fmt.Fprintln(a.stdout, "logged out")
	} else {
		fmt.Fprintln(a.stdout, "not logged in")
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return usageError{msg: "list takes no arguments"}
	}
	if err := a.authed(); err != nil {
		return err
	}

	notes, err := a.api.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.stdout, "no notes")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tCONTENT")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.UpdatedAt.Local().Format(time.DateTime), preview(n.Content))
	}
	return tw.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	body, err := a.content(args)
	if err != nil {
		return err
	}
	if err := a.authed(); err != nil {
		return err
	}

	n, err := a.api.CreateNote(ctx, body)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, n.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError{msg: "edit needs <id> <content>"}
	}
	body, err := a.content(args[1:])
	if err != nil {
		return err
	}
	if err := a.authed(); err != nil {
		return err
	}

	n, err := a.api.UpdateNote(ctx, args[0], body)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "updated %s\n", n.ID)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{msg: "rm needs exactly one <id>"}
	}
	if err := a.authed(); err != nil {
		return err
	}

	if err := a.api.DeleteNote(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "deleted %s\n", args[0])
	return nil
}

// preview is the first line of a note, cut to a terminal-friendly width.
func preview(s string) string {
	const width = 60
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
