package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/avilov/authgate/internal/client/api"
)

// App is the interactive command loop. It keeps the session token in memory
// for the lifetime of the process; nothing is written to disk.
type App struct {
	client *api.Client
	reader *bufio.Reader
	out    io.Writer

	token string
	user  *api.User
}

func NewApp(client *api.Client, in io.Reader, out io.Writer) *App {
	return &App{
		client: client,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run processes commands until "exit" or EOF.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Authgate client. Commands: register, login, whoami, exit")

	for {
		cmd, err := GetSimpleText(a.reader, "", a.out)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch strings.ToLower(cmd) {
		case "register":
			err = a.runRegister(ctx)
		case "login":
			err = a.runLogin(ctx)
		case "whoami":
			err = a.runWhoami(ctx)
		case "exit", "quit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(a.out, "unknown command: %s\n", cmd)
			continue
		}

		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *App) runRegister(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, token, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	a.token = token
	a.user = user
	fmt.Fprintf(a.out, "registered as %s\n", user.Username)
	return nil
}

func (a *App) runLogin(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.token = token
	a.user = user
	fmt.Fprintf(a.out, "logged in as %s\n", user.Username)
	return nil
}

func (a *App) runWhoami(ctx context.Context) error {
	if a.token == "" {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	user, err := a.client.Profile(ctx, a.token)
	if err != nil {
		if api.IsUnauthorized(err) {
			// session expired; drop it
			a.token = ""
			a.user = nil
			fmt.Fprintln(a.out, "session expired, please log in again")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "%s <%s>\n", user.Username, user.Email)
	if user.LastLogin != nil {
		fmt.Fprintf(a.out, "last login: %s\n", user.LastLogin.Format("2006-01-02 15:04:05"))
	}
	return nil
}
