package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/pcbuilderguide/pcbg/cmd/cli/apiclient"
	"github.com/pcbuilderguide/pcbg/cmd/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type publicUser struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// InitAuth registers signup, login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var username, email, firstName, lastName, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a PC Builder Guide account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return fmt.Errorf("--username and --email are required")
			}
			pw, err := passwordOrPrompt(cmd, password, "Password: ")
			if err != nil {
				return err
			}

			var resp struct {
				Message string     `json:"message"`
				User    publicUser `json:"user"`
			}
			err = apiclient.Do("POST", "/api/signup", "", map[string]string{
				"username":        username,
				"email":           email,
				"firstName":       firstName,
				"lastName":        lastName,
				"password":        pw,
				"confirmPassword": pw,
			}, &resp)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d). Run `pcbg login` to sign in.\n", resp.Message, resp.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (at least 3 characters)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&password, "password", "", "Password; prompted for when omitted")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			pw, err := passwordOrPrompt(cmd, password, "Password: ")
			if err != nil {
				return err
			}

			var resp struct {
				Message   string    `json:"message"`
				Token     string    `json:"token"`
				ExpiresAt time.Time `json:"expiresAt"`
			}
			if err := apiclient.Do("POST", "/api/login", "", map[string]string{"username": username, "password": pw}, &resp); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if resp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s. Token valid until %s.\n", resp.Message, resp.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password; prompted for when omitted")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server keeps no session state; this is for parity with the web client.
			_ = apiclient.Do("POST", "/api/logout", "", nil, nil)

			removed, err := config.DeleteToken()
			if err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Whoami
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			var user publicUser
			if err := apiclient.Do("GET", "/api/auth/user", token, nil, &user); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (id %d)\n", user.Username, user.ID)
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			if name := fullName(user); name != "" {
				fmt.Fprintf(out, "Name:  %s\n", name)
			}
			return nil
		},
	}
}

func fullName(u publicUser) string {
	var name string
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	return name
}

func passwordOrPrompt(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return readLine(b), nil
}

func readLine(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return string(b)
}
