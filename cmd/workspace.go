// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.Flags().BoolP("refresh", "r", false, "Ignore the cached folder tree and quota")
	workspaceCmd.SetOut(os.Stdout)
}

// workspaceCmd prints the folder tree and the storage quota of the session user.
var workspaceCmd = &cobra.Command{
	Use:   "workspace [folder-id]",
	Short: "Display the workspace folders and the storage quota",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env := section.NewEnv(newClient())

		session, err := env.Users.Session(cmd.Context())
		handleErr(err)

		overview, err := env.Workspace.Overview(cmd.Context(), session.ID, lo.Must(cmd.Flags().GetBool("refresh")))
		handleErr(err)

		var root string
		if len(args) == 1 {
			root = args[0]
		}
		handleErr(renderOverview(cmd.OutOrStdout(), overview, root))
	},
}

// renderOverview writes the quota then the folders under root, or every folder when root is empty.
func renderOverview(w io.Writer, overview workspace.Overview, root string) error {
	quota := overview.Quota
	fmt.Fprintf(w, "%s %s (%s%%)\n",
		style.New().Bold(true).Foreground(color.Purple).Render("Storage"),
		quota,
		humanize.FormatFloat("#.#", quota.Ratio()*100),
	)

	tree := overview.Tree
	if tree == nil || tree.Len() == 0 {
		fmt.Fprintln(w, style.Faint("No folders"))
		return nil
	}

	folder := style.Fg(color.Yellow)(icon.Get(icon.Folder))
	line := func(node *workspace.Node, depth int) {
		fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), folder, node.Name)
	}

	if root == "" {
		tree.Walk(line)
		return nil
	}

	node, ok := tree.Find(root)
	if !ok {
		return fmt.Errorf("unknown folder %s", root)
	}
	fmt.Fprintln(w, tree.Path(root))

	var walk func(nodes []*workspace.Node, depth int)
	walk = func(nodes []*workspace.Node, depth int) {
		for _, node := range nodes {
			line(node, depth)
			walk(node.Children, depth+1)
		}
	}
	walk(node.Children, 0)
	return nil
}
