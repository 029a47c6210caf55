// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/auth"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/history"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/network"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/open"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/user"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func portalURL() string {
	return viper.GetString(key.APIURL)
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("login", "l", "", "Account login, asked when missing")
	loginCmd.Flags().StringP("token", "t", "", "Access token, asked when missing")
	loginCmd.Flags().Bool("no-verify", false, "Store the token without asking the portal to accept it")
}

// loginCmd stores an access token for an account after the portal accepted it.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the access token of a portal account",
	Long: `Store the access token of a portal account in the system keyring.
The token is pasted once, then every request of edifice is authenticated with it.`,
	Run: func(cmd *cobra.Command, args []string) {
		portal := portalURL()
		if !cmd.Flags().Changed("url") {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Portal address:",
				Default: portal,
			}, &portal, survey.WithValidator(survey.Required)))
		}
		portal = strings.TrimSpace(portal)

		login := lo.Must(cmd.Flags().GetString("login"))
		if login == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Login:",
				Default: viper.GetString(key.AuthLogin),
				Help:    "Leave empty to use the login of the session the token belongs to",
			}, &login))
		}

		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			promptPortal(portal)
			handleErr(survey.AskOne(&survey.Password{
				Message: "Access token:",
			}, &token, survey.WithValidator(survey.Required)))
		}

		if lo.Must(cmd.Flags().GetBool("no-verify")) {
			if login == "" {
				handleErr(fmt.Errorf("a login is required with --no-verify"))
			}
		} else {
			session, err := verifyToken(cmd.Context(), portal, token)
			handleErr(err)

			if login == "" {
				login = session.Login
			}
			fmt.Printf("%s signed in as %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(session.DisplayName))
		}

		handleErr(auth.SetToken(login, token))

		viper.Set(key.APIURL, portal)
		viper.Set(key.AuthLogin, login)
		writeConfig()

		log.Infof("stored token of %s for %s", login, portal)
		fmt.Printf("%s token of %s stored\n", icon.Get(icon.Success), style.Fg(color.Yellow)(login))
	},
}

// promptPortal offers to open the portal, where the token is copied from.
func promptPortal(portal string) {
	var openInBrowser bool
	err := survey.AskOne(&survey.Confirm{
		Message: "Open the portal to copy a token?",
		Default: false,
	}, &openInBrowser)
	if err != nil || !openInBrowser {
		return
	}

	if err := open.Start(portal); err != nil {
		fmt.Println("Please open the following URL in your browser:")
		fmt.Println(portal)
	}
}

func verifyToken(ctx context.Context, portal, token string) (user.Session, error) {
	timeout := time.Duration(viper.GetInt(key.APITimeout)) * time.Second
	client, err := api.New(portal, api.StaticToken(token), api.WithHTTPClient(network.New(timeout)))
	if err != nil {
		return user.Session{}, err
	}
	return user.FetchSession(ctx, client)
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolP("forget", "f", false, "Also forget the configured login and the section history")
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	Run: func(cmd *cobra.Command, args []string) {
		login := viper.GetString(key.AuthLogin)
		handleErr(auth.DeleteToken(login))

		if lo.Must(cmd.Flags().GetBool("forget")) {
			viper.Set(key.AuthLogin, "")
			writeConfig()

			visits, err := history.Recent()
			handleErr(err)
			for _, visit := range visits {
				handleErr(history.Remove(visit.Section))
			}
		}

		fmt.Printf("%s token of %s removed\n", icon.Get(icon.Success), style.Fg(color.Yellow)(login))
	},
}
