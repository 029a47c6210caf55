// Package cmd implements the command-line interface for edifice.
package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/presences"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().BoolP("validate", "V", false, "Validate the call without asking")
}

// callCmd edits the absences of a call sheet.
var callCmd = &cobra.Command{
	Use:   "call <register>",
	Short: "Take the call of a course register",
	Long: `Take the call of a course register.
Register ids are shown in the details of a course in the presences section.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			handleErr(fmt.Errorf("invalid register id: %s", args[0]))
		}

		ctx := cmd.Context()
		client := newClient()

		register, err := presences.GetRegister(ctx, client, id)
		handleErr(err)

		if len(register.Students) == 0 {
			fmt.Printf("%s register %d has no students\n", icon.Get(icon.Fail), id)
			return
		}

		names := lo.Map(register.Students, func(s presences.Student, _ int) string {
			return studentLabel(s)
		})
		byName := lo.KeyBy(register.Students, studentLabel)

		var absent []string
		handleErr(survey.AskOne(&survey.MultiSelect{
			Message: fmt.Sprintf("Absent students of register %d (%s):", register.ID, register.State),
			Options: names,
			Default: lo.FilterMap(register.Students, func(s presences.Student, i int) (string, bool) {
				return names[i], s.Absent
			}),
			PageSize: 15,
		}, &absent))

		marked, cleared := 0, 0
		for _, name := range names {
			student := byName[name]
			wanted := lo.Contains(absent, name)

			switch {
			case wanted && !student.Absent:
				_, err := presences.MarkAbsent(ctx, client, register, student.ID)
				handleErr(err)
				marked++
			case !wanted && student.Absent && student.EventID != 0:
				handleErr(presences.ClearEvent(ctx, client, student.EventID))
				cleared++
			}
		}

		fmt.Printf(
			"%s %s marked absent, %s cleared\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(marked, "student", "students"),
			util.Quantify(cleared, "absence", "absences"),
		)

		validate := lo.Must(cmd.Flags().GetBool("validate"))
		if !validate && register.State != presences.Validated {
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Validate the call?",
				Default: true,
			}, &validate))
		}

		if validate {
			handleErr(presences.Validate(ctx, client, register.ID))
			fmt.Printf("%s register %d validated\n", style.Fg(color.Green)(icon.Get(icon.Success)), register.ID)
		}
	},
}

func studentLabel(s presences.Student) string {
	if s.Group != "" {
		return s.Name + " (" + s.Group + ")"
	}
	return s.Name
}
