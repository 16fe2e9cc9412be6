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

	"github.com/golang-jwt/jwt/v5"

	"github.com/mrlokans/bookshelf/internal/app"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// LoginCommand signs in, or registers, and keeps the session for later
// commands.
type LoginCommand struct {
	Register bool
	Username string
	Email    string
	Password string
	Format   string

	stdin io.Reader
}

// NewLoginCommand signs in with an existing account.
func NewLoginCommand() *LoginCommand {
	return &LoginCommand{stdin: os.Stdin}
}

// NewRegisterCommand creates the account and signs in.
func NewRegisterCommand() *LoginCommand {
	return &LoginCommand{Register: true, stdin: os.Stdin}
}

func (cmd *LoginCommand) name() string {
	if cmd.Register {
		return "register"
	}
	return "login"
}

// ParseFlags requires -email. Run reads the password from stdin when
// -password is omitted.
func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := newFlagSet(cmd.name(), cmd.name()+" -email you@example.com [-password secret]")
	fs.StringVar(&cmd.Email, "email", "", "Account email")
	fs.StringVar(&cmd.Password, "password", "", "Account password (read from stdin when omitted)")
	if cmd.Register {
		fs.StringVar(&cmd.Username, "username", "", "Display name")
	}
	addFormatFlag(fs, &cmd.Format)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Email == "" {
		return errors.New("-email is required")
	}
	return validateFormat(cmd.Format)
}

func (cmd *LoginCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *LoginCommand) run(ctx context.Context, a *app.App, out io.Writer) error {
	password := cmd.Password
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(cmd.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	creds := entities.UserCredentials{Username: cmd.Username, Email: cmd.Email, Password: password}
	var ok bool
	if cmd.Register {
		ok = a.Auth.Register(ctx, creds)
	} else {
		ok = a.Auth.Login(ctx, creds)
	}
	if !ok {
		return errors.New(a.Auth.Error())
	}

	return render(out, cmd.Format, a.Auth.User(), func(w io.Writer) {
		fmt.Fprintf(w, "Signed in as %s\n", displayName(a.Auth.User()))
	})
}

// LogoutCommand ends the saved session.
type LogoutCommand struct{}

func NewLogoutCommand() *LogoutCommand {
	return &LogoutCommand{}
}

func (cmd *LogoutCommand) ParseFlags(args []string) error {
	return newFlagSet("logout", "logout").Parse(args)
}

func (cmd *LogoutCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *LogoutCommand) run(_ context.Context, a *app.App, out io.Writer) error {
	a.Logout()
	fmt.Fprintln(out, "Signed out")
	return nil
}

// WhoamiCommand prints the stored session. Token claims are decoded without
// verification; the API is the only party that can verify them.
type WhoamiCommand struct {
	Format string
}

// WhoamiView is the signed-in user plus the token claims, when the token is a JWT.
type WhoamiView struct {
	Authenticated bool                   `json:"authenticated"`
	Status        entities.SessionStatus `json:"status"`
	User          *entities.User         `json:"user,omitempty"`
	Subject       string                 `json:"subject,omitempty"`
	ExpiresAt     *time.Time             `json:"expiresAt,omitempty"`
}

func NewWhoamiCommand() *WhoamiCommand {
	return &WhoamiCommand{}
}

func (cmd *WhoamiCommand) ParseFlags(args []string) error {
	fs := newFlagSet("whoami", "whoami [-format text|json|yaml]")
	addFormatFlag(fs, &cmd.Format)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return validateFormat(cmd.Format)
}

func (cmd *WhoamiCommand) Run() error {
	return withApp(cmd.run)
}

func (cmd *WhoamiCommand) run(_ context.Context, a *app.App, out io.Writer) error {
	view := WhoamiView{
		Authenticated: a.Auth.IsAuthenticated(),
		Status:        a.Auth.Status(),
		User:          a.Auth.User(),
	}
	view.Subject, view.ExpiresAt = tokenClaims(a.Auth.Token())

	return render(out, cmd.Format, view, func(w io.Writer) {
		if !view.Authenticated {
			fmt.Fprintln(w, "Not signed in")
			return
		}
		fmt.Fprintf(w, "Signed in as %s\n", displayName(view.User))
		if view.Subject != "" {
			fmt.Fprintf(w, "Subject: %s\n", view.Subject)
		}
		if view.ExpiresAt != nil {
			fmt.Fprintf(w, "Token expires: %s\n", view.ExpiresAt.Format(time.RFC3339))
		}
	})
}

// tokenClaims reads sub and exp from a JWT session token. Opaque tokens
// yield nothing.
func tokenClaims(token string) (string, *time.Time) {
	if token == "" {
		return "", nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", nil
	}

	subject, _ := claims.GetSubject()
	var expiresAt *time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		expiresAt = &t
	}
	return subject, expiresAt
}

func displayName(user *entities.User) string {
	switch {
	case user == nil:
		return "unknown user"
	case user.Username != "":
		return user.Username
	case user.Email != "":
		return user.Email
	default:
		return user.ID
	}
}
