// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"os"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/config"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envVariables lists every supported variable, sorted.
func envVariables() []string {
	names := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return lo.Uniq(names)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the collection of supported environment variables and their current process values.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVariables() {
			value, present := os.LookupEnv(env)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
