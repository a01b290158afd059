package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"railspark/cmd/railctl/ui"
	"railspark/internal/types"
)

// =============================================================================
// AUTH COMMANDS
// =============================================================================

var (
	loginUsername string
	loginPassword string
)

// loginCmd authenticates and stores the session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the RailSpark backend",
	Long: `Authenticates with username and password and stores the session token
under the workspace state directory. When --password is omitted it is read
from the first line of stdin.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (default: read from stdin)")
	_ = loginCmd.MarkFlagRequired("username")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("password required: pass --password or pipe it on stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	var res types.LoginResult
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		res, err = env.api.Auth.Login(ctx, loginUsername, password)
		return err
	})
	if err != nil {
		return err
	}

	env.println(ui.SuccessLine(env.styles, fmt.Sprintf("Logged in as %s (%s)", res.Username, res.Role)))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if !env.session.IsAuthenticated() {
		env.println(ui.EmptyState(env.styles, "Not logged in.", ""))
		return nil
	}
	env.api.Auth.Logout()
	env.println(ui.SuccessLine(env.styles, "Logged out"))
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !env.session.IsAuthenticated() {
		env.println(ui.EmptyState(env.styles, "Not logged in.", "railctl login -u <username>"))
		return nil
	}

	var me types.CurrentUser
	err := env.call(cmd.Context(), func(ctx context.Context) error {
		var err error
		me, err = env.api.Auth.Me(ctx)
		return err
	})
	if err != nil {
		return err
	}

	env.println(ui.StatPanel(env.styles, "Current user", []ui.KeyValue{
		{Key: "ID", Value: strconv.Itoa(me.UserID)},
		{Key: "Username", Value: me.Username},
		{Key: "Role", Value: me.Role},
	}))
	return nil
}
