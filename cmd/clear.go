// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"fmt"
	"os"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/util"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"logs directory", "logs", mo.Some("l"), where.Logs},
	{"history file", "history", mo.Some("s"), where.History},
	{"queries history", "queries", mo.Some("q"), where.Queries},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached artifacts. Stored tokens are left to logout.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			if err := util.Delete(target.location()); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
