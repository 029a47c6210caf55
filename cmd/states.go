// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"os"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statesCmd)
	statesCmd.Flags().Bool("dot", false, "Print the transitions as a graphviz digraph")
	statesCmd.SetOut(os.Stdout)
}

// statesCmd documents the loading states every section goes through.
var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Describe the loading states of a section and their transitions",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("dot")) {
			cmd.Println(loading.New(loading.Options[struct{}]{Name: "section"}).Visualize())
			return
		}

		stateStyle := func(s loading.State) string {
			return style.New().Bold(true).Foreground(color.ForState(s)).Render(s.String())
		}

		width := lo.Max(lo.Map(loading.States, func(s loading.State, _ int) int {
			return len(s)
		}))

		for _, s := range loading.States {
			cmd.Printf("%s%s %s\n", stateStyle(s), strings.Repeat(" ", width-len(s)), style.Faint(presentation(loading.Present(s))))
		}

		cmd.Println()

		for _, t := range loading.Transitions() {
			cmd.Printf("%s %s %s\n",
				stateStyle(t.From),
				style.Fg(color.Cyan)("--"+t.Event+"->"),
				stateStyle(t.To),
			)
		}
	},
}

// presentation describes what a screen draws for p.
func presentation(p loading.Presentation) string {
	var parts []string
	switch {
	case p.FullScreenLoader:
		parts = append(parts, "full screen loader")
	case p.ErrorView:
		parts = append(parts, "error view with retry")
	case p.List:
		parts = append(parts, "list")
	}

	if p.RefreshSpinner {
		parts = append(parts, "refresh spinner")
	}
	if p.FooterLoader {
		parts = append(parts, "footer loader")
	}
	if p.ErrorSignal {
		parts = append(parts, "error signal")
	}

	return strings.Join(parts, ", ")
}
