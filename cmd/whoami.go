// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"os"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/user"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.SetOut(os.Stdout)
}

// whoamiCmd prints the session user, or the profile of another user.
var whoamiCmd = &cobra.Command{
	Use:   "whoami [user-id]",
	Short: "Display the signed in account or the profile of a user",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		users := user.NewCache(newClient())

		session, err := users.Session(cmd.Context())
		handleErr(err)

		id := session.ID
		if len(args) == 1 {
			id = args[0]
		}

		profile, err := users.Profile(cmd.Context(), id)
		handleErr(err)

		field := func(name, value string) {
			if value == "" {
				return
			}
			cmd.Printf("  %s %s\n", style.Faint(name+strings.Repeat(" ", 10-len(name))), value)
		}

		cmd.Println(style.New().Bold(true).Foreground(color.Purple).Render(profile.DisplayName))
		field("Profiles", strings.Join(profile.Types, ", "))
		field("Schools", strings.Join(profile.Schools, ", "))
		field("Email", profile.Email)
		field("Mobile", profile.Mobile)
		field("Motto", profile.Motto)
		field("Mood", profile.Mood)

		if id == session.ID {
			field("Login", session.Login)
			field("Classes", strings.Join(session.Classes, ", "))
			field("Structures", strings.Join(lo.Map(session.Structures, func(s user.Structure, _ int) string {
				return lo.Ternary(s.Name != "", s.Name, s.ID)
			}), ", "))
		}
	},
}
