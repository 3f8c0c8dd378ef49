package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

var (
	authEmail    string
	authPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account with the auth service. When email confirmation is
required no session is issued until the address is confirmed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(cmd)
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			resp, err := c.state.SignUp(ctx, email, password)
			if err != nil {
				return err
			}
			if resp.Session == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Check your inbox to confirm the address, then run 'dreamrate signin'.")
			}
			return render(cmd, resp.User)
		})
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and keep the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(cmd)
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			resp, err := c.state.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			return render(cmd, resp.User)
		})
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the held session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			if err := c.state.SignOut(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Signed out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			user, err := c.state.CurrentUser(ctx)
			if err != nil {
				return err
			}
			return render(cmd, user)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, signinCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email (prompted when empty)")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (prompted when empty)")
	}
}

// credentials takes email and password from flags, prompting for what is missing.
func credentials(cmd *cobra.Command) (string, string, error) {
	email, password := authEmail, authPassword
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()

	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	if password == "" {
		fmt.Fprint(out, "Password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(pw)
	}

	return email, password, nil
}
