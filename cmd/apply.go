package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartreg/core/planner"
)

var (
	applyFlags requestFlags
	applyRank  int
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Generate schedules and enroll in the sections of one of them",
	RunE:  runApply,
}

func init() {
	applyFlags.bind(applyCmd)
	applyCmd.Flags().IntVar(&applyRank, "rank", 1, "ranked option to enroll in")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	_, svc, err := setup()
	if err != nil {
		return err
	}
	defer teardown(svc)

	out := cmd.OutOrStdout()
	resp, err := plan(cmd.Context(), svc, applyFlags, out)
	if err != nil {
		return err
	}
	if resp.Status != planner.StatusOK {
		return fmt.Errorf("nothing to apply: %s", resp.Message)
	}
	rep, err := svc.Apply(cmd.Context(), resp.SessionID, applyRank)
	for _, o := range rep.Outcomes {
		state := "enrolled"
		switch {
		case o.Error != "":
			state = "error: " + o.Error
		case !o.Enrolled:
			state = "refused"
		}
		fmt.Fprintf(out, "%-12s %-10s %s\n", o.SectionID, o.CourseCode, state)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d enrolled, %d refused\n", rep.Enrolled, rep.Refused)
	return nil
}
