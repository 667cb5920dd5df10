package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/console/app"
	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/internal/console/query"
	"github.com/aussiebroadwan/backoffice/internal/console/view"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
)

const usage = `usage: backoffice <command> [flags]

commands:
  login      sign in and store the session
  logout     drop the stored session
  whoami     show the signed-in user
  dashboard  show dashboard counters
  list       list an entity: products, customers, quotations, users,
             categories, models, default-messages
  create     create a record from YAML: create <entity> -file f.yaml
  update     update a record: update <entity> -id ID -file f.yaml
  delete     delete a record: delete <entity> -id ID
  quotation  new | edit | show | approve | reject | convert`

var errNotSignedIn = errors.New("not signed in: run `backoffice login` first")

// cli carries the process-wide pieces every command uses.
type cli struct {
	app    *app.Application
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return errors.New("expected a command")
	}

	cmd, rest := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Fprintln(stdout, usage)
		return nil
	}

	handlers := map[string]func(context.Context, *cli, []string) error{
		"login":     runLogin,
		"logout":    runLogout,
		"whoami":    runWhoami,
		"dashboard": runDashboard,
		"list":      runList,
		"quotation": runQuotation,
		"create":    runCreate,
		"update":    runUpdate,
		"delete":    runDelete,
	}
	handler, ok := handlers[cmd]
	if !ok {
		fmt.Fprintln(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	a, err := app.New(ctx, app.LoadConfig(),
		app.WithNavigator(cliNavigator{out: stderr}),
		app.WithNotifier(stderrNotifier{out: stderr}),
	)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	a.Start()

	return handler(ctx, &cli{app: a, stdin: stdin, stdout: stdout, stderr: stderr}, rest)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// require checks that the session may open route.
func (c *cli) require(ctx context.Context, route string) error {
	d := nav.Resolve(ctx, c.app.Session, route)
	switch {
	case d.Allowed():
		return nil
	case d.Redirect == nav.Login:
		return errNotSignedIn
	default:
		return fmt.Errorf("%s is not available to your role", route)
	}
}

// cliNavigator turns session redirects into hints. The only redirect a
// command cannot carry on from is the one to the login route.
type cliNavigator struct {
	out io.Writer
}

func (n cliNavigator) Navigate(_ context.Context, route string) {
	if route == nav.Login {
		fmt.Fprintln(n.out, "Your session has ended. Run `backoffice login` to sign in again.")
	}
}

// stderrNotifier prints notices the way the web console shows toasts.
type stderrNotifier struct {
	out io.Writer
}

func (n stderrNotifier) Notify(_ context.Context, notice query.Notice) {
	mark := "ok"
	switch notice.Level {
	case query.LevelWarning:
		mark = "warn"
	case query.LevelError:
		mark = "error"
	}
	fmt.Fprintf(n.out, "[%s] %s\n", mark, notice.Message)
}

func runLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password (default: $BACKOFFICE_PASSWORD, then stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fs.PrintDefaults()
		return errors.New("email is required")
	}
	if *password == "" {
		*password = os.Getenv("BACKOFFICE_PASSWORD")
	}
	if *password == "" {
		line, err := bufio.NewReader(c.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	user, err := c.app.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

func runLogout(ctx context.Context, c *cli, _ []string) error {
	c.app.Session.Logout(ctx)
	fmt.Fprintln(c.stdout, "Signed out.")
	return nil
}

func runWhoami(_ context.Context, c *cli, _ []string) error {
	snap := c.app.Session.Snapshot()
	if !snap.IsAuthenticated {
		return errNotSignedIn
	}

	u := snap.User
	fmt.Fprintf(c.stdout, "%s <%s>\nrole: %s\nid:   %s\napi:  %s\n", u.Name, u.Email, u.Role, u.ID, c.app.Config().APIURL)

	if info, err := jwtx.Inspect(snap.Token); err == nil && !info.ExpiresAt.IsZero() {
		now := time.Now()
		if info.Expired(now) {
			fmt.Fprintf(c.stdout, "token: expired %s, the server will ask you to sign in again\n", info.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Fprintf(c.stdout, "token: expires in %s\n", info.Remaining(now).Round(time.Minute))
		}
	}

	var titles []string
	for _, r := range nav.Menu(u.Role) {
		titles = append(titles, r.Title)
	}
	fmt.Fprintf(c.stdout, "menu: %s\n", strings.Join(titles, ", "))
	return nil
}

func runDashboard(ctx context.Context, c *cli, _ []string) error {
	if err := c.require(ctx, nav.Dashboard); err != nil {
		return err
	}

	stats, err := c.app.Hooks.Dashboard.Stats(ctx, c.app.Session.Snapshot().User)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Products", fmt.Sprint(stats.TotalProducts)},
		{"Clients", fmt.Sprint(stats.TotalClients)},
		{"Users", fmt.Sprint(stats.TotalUsers)},
		{"Quotations", fmt.Sprint(stats.TotalQuotations)},
		{"Pending", fmt.Sprint(stats.PendingQuotations)},
		{"Approved", fmt.Sprint(stats.ApprovedQuotations)},
		{"Rejected", fmt.Sprint(stats.RejectedQuotations)},
	}
	return view.RenderTable(c.stdout, []string{"METRIC", "COUNT"}, rows)
}
