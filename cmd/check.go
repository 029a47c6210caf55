// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/auth"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/spf13/viper"
)

// CheckSession verifies that a token is stored for the configured account and the portal accepts it.
// The session read on the way is kept in the user cache of env.
func CheckSession(ctx context.Context, env *section.Env) {
	if viper.GetString(key.AuthLogin) == "" {
		printSessionError("No account is configured.")
		os.Exit(1)
	}

	if _, err := (auth.Keyring{Login: viper.GetString(key.AuthLogin)}).Token(ctx); err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			printSessionError(fmt.Sprintf("No token is stored for %s.", viper.GetString(key.AuthLogin)))
			os.Exit(1)
		}
		handleErr(err)
	}

	// other failures are left to the sections, which show them in place
	if _, err := env.Users.Session(ctx); errors.Is(err, api.ErrUnauthorized) {
		printSessionError("The portal rejected the stored token.")
		os.Exit(1)
	}
}

func printSessionError(reason string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Not Logged In", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(reason)
	suggestion := fmt.Sprintf("\n\nTo log in, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render("edifice login"))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
