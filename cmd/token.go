package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
)

// tokenCmd represents the token command.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the Toggl API token",
	Long: `Show, store or rotate the Toggl API token.

Examples:
  togglcmder token set
  echo "$TOKEN" | togglcmder token set
  togglcmder token show
  togglcmder token reset`,
}

// tokenSetCmd stores a token.
var tokenSetCmd = &cobra.Command{
	Use:   "set [TOKEN]",
	Short: "Store an API token in the config file",
	Long: `Store an API token in the config file. Without an argument the token is read
from the terminal without echo, or from the first line of standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenSet,
}

// tokenShowCmd shows the account.
var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account the token belongs to",
	Args:  cobra.NoArgs,
	RunE:  runTokenShow,
}

// tokenResetCmd rotates the token.
var tokenResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Ask Toggl for a new API token and store it",
	Long: `Ask Toggl for a new API token and store it in the config file. The old token
stops working immediately.`,
	Args: cobra.NoArgs,
	RunE: runTokenReset,
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenResetCmd)
	rootCmd.AddCommand(tokenCmd)
}

// readToken reads a token from the terminal without echo, or a line from in.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprint(cmd.ErrOrStderr(), "API token: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", apperrors.NewSystemError("failed to read the token", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", apperrors.NewUserError("No token on standard input", "Pass the token as an argument")
	}
	return strings.TrimSpace(line), nil
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	var (
		token string
		err   error
	)
	if len(args) == 1 {
		token = strings.TrimSpace(args[0])
	} else if token, err = readToken(cmd); err != nil {
		return err
	}
	if token == "" {
		return apperrors.NewUserError("The token is empty", "Copy the token from your Toggl profile page")
	}

	if err := ctx.Config.SaveToken(token); err != nil {
		return apperrors.NewSystemError("failed to save the API token", err)
	}
	return printResult(fmt.Sprintf("Stored token %s in %s", logging.MaskPartial(token, 4), ctx.Config.Path()))
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	if ctx.Syncer.Enabled() {
		if err := ctx.RequireToken(); err != nil {
			return err
		}
	}
	user, err := ctx.Syncer.User(cmd.Context())
	if err != nil {
		return err
	}
	if user == nil {
		return notFound(model.KindUser, "")
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewUserOutput(*user))
	}
	ctx.CLIFormatter().PrintUser(*user)
	return nil
}

func runTokenReset(cmd *cobra.Command, args []string) error {
	if err := ctx.RequireToken(); err != nil {
		return err
	}
	token, err := ctx.Remote.ResetToken(cmd.Context())
	if err != nil {
		return err
	}
	if err := ctx.Config.SaveToken(token); err != nil {
		// The old token no longer works.
		fmt.Fprintln(cmd.OutOrStdout(), "New API token: "+token)
		return apperrors.NewSystemError("failed to save the new API token", err)
	}

	user, err := ctx.Cache.User(cmd.Context())
	if err != nil {
		ctx.Logger.WarnContext(cmd.Context(), "failed to read cached user", "error", err)
	} else if user != nil {
		rotated := *user
		rotated.APIToken = token
		cacheWrite(cmd.Context(), model.KindUser, func() (int64, error) {
			return ctx.Cache.UpdateUser(cmd.Context(), rotated)
		})
	}

	return printResult(fmt.Sprintf("Stored new token %s in %s", logging.MaskPartial(token, 4), ctx.Config.Path()))
}
