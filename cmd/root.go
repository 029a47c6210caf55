// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/history"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("url", "", "Portal address, overriding the configured one")
	lo.Must0(viper.BindPFlag(key.APIURL, rootCmd.PersistentFlags().Lookup("url")))

	rootCmd.Flags().BoolP("continue", "c", false, "Resume the most recently opened section")
	rootCmd.Flags().StringP("section", "s", "", "Open a section directly")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("section", completionSections))
}

// rootCmd opens the interactive interface.
var rootCmd = &cobra.Command{
	Use:   constant.Edifice,
	Short: "A terminal client for Edifice school portals",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiCyan).Render("    - A terminal client for Edifice school portals"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		env := section.NewEnv(newClient())
		CheckSession(cmd.Context(), env)

		options := tui.Options{
			Context: cmd.Context(),
			Store:   store.New(),
			Env:     env,
			Section: lo.Must(cmd.Flags().GetString("section")),
		}
		if options.Section == "" && lo.Must(cmd.Flags().GetBool("continue")) {
			options.Section = history.Last().OrElse("")
		}

		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newClient() *api.Client {
	client, err := api.FromConfig()
	handleErr(err)
	return client
}

func completionSections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return section.Names(), cobra.ShellCompDirectiveNoFileComp
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
