// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/inline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/query"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("pages", "p", 1, "Number of pages to load")
	listCmd.Flags().BoolP("json", "j", false, "Write the listing as JSON")
	listCmd.Flags().Bool("schema", false, "Print the JSON schema of the listing and exit")
	listCmd.Flags().StringP("select", "S", "", "Rows to keep: first, last, all, an index, a range like 2-4, @text@ or ~fuzzy~")
	listCmd.Flags().StringP("output", "o", "", "Write to a file instead of the standard output")

	lo.Must0(listCmd.RegisterFlagCompletionFunc("select", completionSelectors))
	lo.Must0(listCmd.MarkFlagFilename("output"))
}

// listCmd loads a section without the interactive interface.
var listCmd = &cobra.Command{
	Use:       "list [section]",
	Short:     "Print the items of a section",
	Example:   "  edifice list mail --pages 2\n  edifice list timeline --json --select first\n  edifice list --schema",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: section.Names(),
	Run: func(cmd *cobra.Command, args []string) {
		var entry section.Entry
		if len(args) == 1 {
			e, ok := section.Get(args[0])
			if !ok {
				handleErr(fmt.Errorf("unknown section %s, available sections are: %v", args[0], section.Names()))
			}
			entry = e
		}

		out, closeOut := listOutput(cmd)
		defer closeOut()

		if lo.Must(cmd.Flags().GetBool("schema")) {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(inline.Schema(entry)))
			return
		}

		if entry == nil {
			handleErr(fmt.Errorf("a section is required, available sections are: %v", section.Names()))
		}

		options := inline.Options{
			Out:     out,
			Context: cmd.Context(),
			Section: entry,
			Store:   store.New(),
			Env:     section.NewEnv(newClient()),
			Pages:   lo.Must(cmd.Flags().GetInt("pages")),
			Json:    lo.Must(cmd.Flags().GetBool("json")),
		}

		if description := lo.Must(cmd.Flags().GetString("select")); description != "" {
			selector, err := inline.ParseSelector(description)
			handleErr(err)
			options.Selector = mo.Some(selector)

			if err := query.Remember(entry.Name(), description, 1); err != nil {
				log.Warn(err)
			}
		}

		handleErr(inline.Run(&options))
	},
}

func listOutput(cmd *cobra.Command) (io.Writer, func()) {
	path := lo.Must(cmd.Flags().GetString("output"))
	if path == "" {
		return cmd.OutOrStdout(), func() {}
	}

	handleErr(filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm))
	file, err := filesystem.API().Create(path)
	handleErr(err)

	return file, func() {
		if err := file.Close(); err != nil {
			log.Error(err)
		}
	}
}

func completionSelectors(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	suggestions := []string{"first", "last", "all"}
	if len(args) == 1 {
		suggestions = append(query.Suggest(args[0], toComplete), suggestions...)
	}
	return lo.Uniq(suggestions), cobra.ShellCompDirectiveNoFileComp
}
