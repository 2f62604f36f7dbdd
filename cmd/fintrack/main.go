// Command fintrack is a small terminal client for the fintrack API,
// mostly useful for poking at a deployment and exercising the session
// layer end to end.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fintrack/go-client/api"
	"github.com/fintrack/go-client/internal/config"
	"github.com/fintrack/go-client/internal/utils"
	"github.com/fintrack/go-client/profile"
	"github.com/fintrack/go-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fintrack: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			debug.PrintStack()
			returnError = errors.Errorf("panic recovered: %v", r)
		}
	}()

	configPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	baseURL := flag.String("base-url", "", "API base URL (overrides config)")
	email := flag.String("email", "", "login email (overrides config)")
	verbose := flag.BoolP("verbose", "v", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *email != "" {
		cfg.Email = *email
	}

	logger := newLogger(cfg.LogLevel, *verbose)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	client.OnSessionExpired(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	command := flag.Arg(0)
	if command == "" {
		command = "me"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch command {
	case "login":
		return login(ctx, client, cfg.Email)
	case "logout":
		return client.Logout(ctx)
	case "me":
		return me(ctx, client)
	case "accounts":
		return accounts(ctx, client)
	case "goals":
		return goals(ctx, client)
	case "balance":
		return balance(ctx, client)
	case "theme":
		return setTheme(ctx, client, flag.Arg(1))
	default:
		return errors.Errorf("unknown command %q (want login, logout, me, accounts, goals, balance or theme)", command)
	}
}

func newClient(cfg config.Config, logger zerolog.Logger) (*api.Client, error) {
	options := []session.Option{
		session.WithLogger(logger),
	}
	if cfg.FallbackCSRFToken != "" {
		options = append(options, session.WithFallbackCSRFToken(cfg.FallbackCSRFToken))
	}
	if cfg.RefreshTimeout > 0 {
		options = append(options, session.WithRefreshTimeout(time.Duration(cfg.RefreshTimeout)))
	}
	if cfg.ProfilePath != "" {
		options = append(options, session.WithProfileStore(profile.NewFileStore(cfg.ProfilePath)))
	}
	return api.New(cfg.BaseURL, options...)
}

func newLogger(level string, verbose bool) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	if verbose {
		logLevel = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(logLevel).With().Timestamp().Logger()
}

func login(ctx context.Context, client *api.Client, email string) error {
	displayBanner()

	if email == "" {
		fmt.Print("email: ")
		if _, err := fmt.Scanln(&email); err != nil {
			return errors.Wrap(err, "read email")
		}
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return errors.Wrap(err, "read password")
	}

	user, err := client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	if user != nil {
		fmt.Printf("logged in as %s (%s)\n", user.FullName(), user.Email)
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func me(ctx context.Context, client *api.Client) error {
	user, err := client.Users.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> joined %s\n", user.FullName(), user.Email, user.DateJoined.Format("2006-01-02"))
	return nil
}

func accounts(ctx context.Context, client *api.Client) error {
	list, err := client.Accounts.List(ctx)
	if err != nil {
		return err
	}
	for _, account := range list {
		limit := utils.Value(account.CreditLimit)
		fmt.Printf("%-6d %-25s %-10s %10s %-4s %s\n",
			account.ID, account.Name, account.AccountType, account.Balance, account.Currency, limit)
	}
	return nil
}

func goals(ctx context.Context, client *api.Client) error {
	list, err := client.Goals.List(ctx)
	if err != nil {
		return err
	}
	for _, goal := range list {
		fmt.Printf("%-6d %-25s %10s / %-10s %s\n",
			goal.ID, goal.Name, goal.CurrentAmount, goal.TargetAmount, goal.Status)
	}
	return nil
}

func setTheme(ctx context.Context, client *api.Client, theme string) error {
	if theme == "" {
		return errors.New("usage: fintrack theme <light|dark|system>")
	}
	if _, err := client.Users.UpdatePreferences(ctx, &api.Preferences{Theme: utils.Ptr(theme)}); err != nil {
		return err
	}
	fmt.Printf("theme set to %s\n", theme)
	return nil
}

func balance(ctx context.Context, client *api.Client) error {
	summary, err := client.Balances.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s owes/is owed %s overall\n", summary.Username, summary.OverallNetBalance)
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.fintrack.yaml"
}

func displayBanner() {
	banner := figure.NewFigure("fintrack", "cybermedium", true)
	banner.Print()
	fmt.Println()
}
