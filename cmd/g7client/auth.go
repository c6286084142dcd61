package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/g7food/client/internal/account"
	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/validate"
)

func pingCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "check that the backend is reachable",
		Action: func(c *cli.Context) error {
			start := time.Now()
			if err := get().client.Health(c.Context); err != nil {
				return fail(err)
			}
			fmt.Printf("Backend reachable (%s)\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func loginCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "account email (defaults to the remembered one)"},
			&cli.StringFlag{Name: "password", EnvVars: []string{"G7_PASSWORD"}, Required: true},
			&cli.BoolFlag{Name: "remember", Usage: "remember the email for next time"},
		},
		Action: func(c *cli.Context) error {
			a := get()
			email := c.String("email")
			if email == "" {
				email = a.session.RememberedEmail(c.Context)
			}
			user, err := a.session.Login(c.Context, email, c.String("password"), c.Bool("remember"))
			if err != nil {
				return fail(err)
			}
			name := user.FullName()
			if name == "" {
				name = user.Email
			}
			fmt.Printf("Welcome, %s.\n", name)
			return nil
		},
	}
}

func logoutCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored access token",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "forget-email", Usage: "also forget the remembered email"},
		},
		Action: func(c *cli.Context) error {
			a := get()
			a.session.Logout(c.Context)
			if c.Bool("forget-email") {
				if err := a.session.SetRememberMe(c.Context, false, ""); err != nil {
					return fail(err)
				}
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func registerCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"G7_PASSWORD"}, Required: true},
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "phone", Required: true},
			&cli.StringFlag{Name: "address", Required: true},
		},
		Action: func(c *cli.Context) error {
			a := get()
			form := validate.Registration{
				Email:     c.String("email"),
				Password:  c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				Phone:     c.String("phone"),
				Address:   c.String("address"),
			}.Trimmed()

			if taken, ok := checkEmail(c.Context, a, form.Email); ok && taken {
				const msg = "This email is already registered"
				return fail(apperr.InvalidErr(msg, map[string]string{account.FieldEmail: msg}))
			}

			user, err := a.session.Register(c.Context, form)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Account created for %s.\n", user.Email)
			return nil
		},
	}
}

// checkEmail runs one debounced availability check and waits for its result.
// ok is false when no answer arrived (malformed email or lookup failure).
func checkEmail(ctx context.Context, a *app, email string) (taken, ok bool) {
	results := make(chan account.EmailResult, 1)
	checker := account.NewEmailChecker(a.client, a.cfg.EmailCheckDelay, func(r account.EmailResult) {
		select {
		case results <- r:
		default:
		}
	})
	defer checker.Close()

	checker.Submit(email)

	timeout := time.NewTimer(a.cfg.EmailCheckDelay + a.cfg.RequestTimeout)
	defer timeout.Stop()
	select {
	case r := <-results:
		return r.Exists, true
	case <-timeout.C:
		return false, false
	case <-ctx.Done():
		return false, false
	}
}

func whoamiCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user",
		Action: func(c *cli.Context) error {
			user, err := get().session.Profile(c.Context)
			if err != nil {
				if errors.Is(err, account.ErrNotLoggedIn) {
					fmt.Println("Not logged in.")
					return cli.Exit("", 1)
				}
				return fail(err)
			}
			fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
			if user.Phone != "" {
				fmt.Printf("Phone:   %s\n", user.Phone)
			}
			if user.Address != "" {
				fmt.Printf("Address: %s\n", user.Address)
			}
			return nil
		},
	}
}

func profileCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "manage the profile",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "change name, phone or email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "email"},
				},
				Action: func(c *cli.Context) error {
					a := get()
					current, err := a.session.Profile(c.Context)
					if err != nil {
						return fail(err)
					}
					form := validate.ProfileUpdate{
						FirstName: pick(c.String("first-name"), current.FirstName),
						LastName:  pick(c.String("last-name"), current.LastName),
						Phone:     pick(c.String("phone"), current.Phone),
						Email:     pick(c.String("email"), current.Email),
					}
					user, err := a.session.UpdateProfile(c.Context, form)
					if err != nil {
						return fail(err)
					}
					fmt.Printf("Profile updated: %s <%s>\n", user.FullName(), user.Email)
					return nil
				},
			},
		},
	}
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func passwordCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "reset a forgotten password",
		Subcommands: []*cli.Command{
			{
				Name:  "request",
				Usage: "email a reset code",
				Flags: []cli.Flag{&cli.StringFlag{Name: "email", Required: true}},
				Action: func(c *cli.Context) error {
					if err := get().session.RequestPasswordReset(c.Context, c.String("email")); err != nil {
						return fail(err)
					}
					fmt.Println("If the account exists, a reset code is on its way.")
					return nil
				},
			},
			{
				Name:  "confirm",
				Usage: "set a new password with the emailed code",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Required: true},
					&cli.StringFlag{Name: "password", EnvVars: []string{"G7_NEW_PASSWORD"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					if err := get().session.ConfirmPasswordReset(c.Context, c.String("token"), c.String("password")); err != nil {
						return fail(err)
					}
					fmt.Println("Password changed. You can log in now.")
					return nil
				},
			},
		},
	}
}
