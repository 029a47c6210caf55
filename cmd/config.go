// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/config"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/timeline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// choices restricts string keys to a known set of values.
var choices = map[string][]string{
	key.MailFolder:      {"inbox", "outbox", "draft", "trash"},
	key.WorkspaceFilter: {"owner", "shared", "protected", "trash"},
	key.LogsLevel:       {"panic", "fatal", "error", "warn", "info", "debug", "trace"},
}

func valueChoices(k string) []string {
	if k == key.IconsVariant {
		return icon.AvailableVariants()
	}
	return choices[k]
}

func closest(word string, among []string) string {
	return lo.MinBy(among, func(a string, b string) bool {
		return levenshtein.Distance(word, a) < levenshtein.Distance(word, b)
	})
}

func errUnknownKey(key string) error {
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest(key, lo.Keys(config.Default))),
	)

	return errors.New(msg)
}

func errInvalidChoice(key, value string) error {
	msg := fmt.Sprintf(
		"invalid value %s for %s, did you mean %s?",
		style.Fg(color.Red)(value),
		style.Fg(color.Purple)(key),
		style.Fg(color.Yellow)(closest(value, valueChoices(key))),
	)

	return errors.New(msg)
}

func completionConfigKeys(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 && args[0] == key.TimelineTypes {
		return notificationTypes(cmd.Context()), cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 1 {
		return valueChoices(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// notificationTypes asks the portal for the timeline types. Completion stays silent on failure.
func notificationTypes(ctx context.Context) []string {
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := api.FromConfig()
	if err != nil {
		return nil
	}

	types, err := timeline.Types(ctx, client)
	if err != nil {
		log.Warn(err)
		return nil
	}
	return types
}

func configFilePath() string {
	return filepath.Join(where.Config(), fmt.Sprintf("%s.%s", constant.Edifice, "toml"))
}

func writeConfig() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

// parseValue converts raw to the type of the default value of key.
func parseValue(key string, raw []string) (any, error) {
	switch config.Default[key].Value.(type) {
	case string:
		if options := valueChoices(key); len(options) > 0 && !lo.Contains(options, raw[0]) {
			return nil, errInvalidChoice(key, raw[0])
		}
		return raw[0], nil
	case int:
		parsed, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return parsed, nil
	case bool:
		parsed, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return parsed, nil
	case []string:
		return lo.Compact(lo.FlatMap(raw, func(v string, _ int) []string {
			return lo.Map(strings.Split(v, ","), func(s string, _ int) string {
				return strings.TrimSpace(s)
			})
		})), nil
	default:
		return raw[0], nil
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd is the parent of the configuration commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration settings and defaults",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display detailed information and descriptions for specified configuration fields",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))

			for _, key := range keys {
				if _, ok := config.Default[key]; !ok {
					handleErr(errUnknownKey(key))
				}

				fields = append(fields, config.Default[key])
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for _, k := range config.Unknown() {
			cmd.Printf("%s %s is set but unknown, did you mean %s?\n\n",
				style.Fg(color.Yellow)(icon.Get(icon.Fail)),
				style.Fg(color.Red)(k),
				style.Fg(color.Purple)(closest(k, lo.Keys(config.Default))),
			)
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())

			if i < len(fields)-1 {
				cmd.Println()
				cmd.Println()
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The configuration key to update")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "The new value to assign to the configuration key")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Update the value of a specified configuration key",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var key string
		var value []string

		flagKey := lo.Must(cmd.Flags().GetString("key"))
		flagValue := lo.Must(cmd.Flags().GetStringSlice("value"))

		switch {
		case len(args) >= 1:
			key = args[0]
		case flagKey != "":
			key = flagKey
		default:
			handleErr(errors.New("key is required as an argument or --key flag"))
		}

		switch {
		case len(args) >= 2:
			value = args[1:]
		case len(flagValue) > 0:
			value = flagValue
		default:
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		}

		v, err := parseValue(key, value)
		handleErr(err)

		viper.Set(key, v)
		writeConfig()

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The specific configuration key to retrieve")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Retrieve the current value of a specified configuration key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var key string
		flagKey := lo.Must(cmd.Flags().GetString("key"))

		switch {
		case len(args) >= 1:
			key = args[0]
		case flagKey != "":
			key = flagKey
		default:
			handleErr(errors.New("key is required as an argument or --key flag"))
		}

		if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		}

		fmt.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Forcefully overwrite the existing configuration file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Persist the current in-memory configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Permanently remove the configuration file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		fmt.Printf(
			"%s deleted config\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "The configuration key to restore to its default value")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore all configuration settings to their factory defaults")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore a specified configuration key to its default value",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(fmt.Errorf("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
		)

		if all {
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
		} else if _, ok := config.Default[key]; !ok {
			handleErr(errUnknownKey(key))
		} else {
			viper.Set(key, config.Default[key].Value)
		}

		writeConfig()

		if all {
			fmt.Printf(
				"%s reset all config values\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
			)
			return
		}

		fmt.Printf(
			"%s reset %s to default value %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", config.Default[key].Value)),
		)
	},
}
