package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartreg/app"
	"github.com/kilianp07/smartreg/core/planner"
	"github.com/kilianp07/smartreg/core/session"
	"github.com/kilianp07/smartreg/pkg/export"
)

type requestFlags struct {
	courses []string
	days    []string
	start   string
	end     string
	maxDays int
	maxGap  int
	confirm bool
	cmd     *cobra.Command
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().StringSliceVar(&f.courses, "courses", nil, "course codes to schedule (comma separated)")
	cmd.Flags().StringSliceVar(&f.days, "days", nil, "allowed days, e.g. Mon,Tue,Wed")
	cmd.Flags().StringVar(&f.start, "start", "", "earliest start time HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "latest end time HH:MM")
	cmd.Flags().IntVar(&f.maxDays, "max-days", 0, "preferred maximum number of days (0 disables the bonus)")
	cmd.Flags().IntVar(&f.maxGap, "max-gap", 0, "preferred maximum gap in hours")
	cmd.Flags().BoolVar(&f.confirm, "confirm", false, "continue without courses that do not fit the filters")
	_ = cmd.MarkFlagRequired("courses")
}

func (f *requestFlags) request() session.Request {
	req := session.Request{
		SelectedCourses: f.courses,
		Days:            f.days,
		StartTime:       f.start,
		EndTime:         f.end,
	}
	// Unset flags fall back to the configured filter defaults.
	if f.cmd.Flags().Changed("max-days") {
		req.MaxDays = &f.maxDays
	}
	if f.cmd.Flags().Changed("max-gap") {
		req.MaxGap = &f.maxGap
	}
	return req
}

var (
	genFlags  requestFlags
	genFormat string
	genShow   int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ranked conflict-free schedules",
	RunE:  runGenerate,
}

func init() {
	genFlags.bind(generateCmd)
	generateCmd.Flags().StringVar(&genFormat, "format", "text", "output format: text, json or csv")
	generateCmd.Flags().IntVar(&genShow, "show", 1, "number of timetables printed in text format")
	rootCmd.AddCommand(generateCmd)
}

// plan scans the catalog and runs one request, confirming exclusions when
// asked to.
func plan(ctx context.Context, svc *app.Service, f requestFlags, out io.Writer) (session.Response, error) {
	if _, err := svc.Scan(ctx); err != nil {
		return session.Response{}, err
	}
	resp, err := svc.Generate(ctx, "", f.request())
	if err != nil {
		return resp, err
	}
	if resp.Status != planner.StatusExcluded {
		return resp, nil
	}
	fmt.Fprintln(out, resp.Message+":")
	for _, c := range resp.ExcludedCourses {
		fmt.Fprintf(out, "  %s %s\n", c.Code, c.Name)
	}
	if !f.confirm {
		fmt.Fprintln(out, "rerun with --confirm to continue without them")
		return resp, nil
	}
	return svc.Confirm(ctx, resp.SessionID)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, svc, err := setup()
	if err != nil {
		return err
	}
	defer teardown(svc)

	out := cmd.OutOrStdout()
	resp, err := plan(cmd.Context(), svc, genFlags, out)
	if err != nil {
		return err
	}
	switch genFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "csv":
		return export.WriteCSV(out, resp.RankedResults)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", genFormat)
	}
	if resp.Status == planner.StatusExcluded {
		return nil
	}
	fmt.Fprintf(out, "%s (%d examined, %d conflict-free)\n", resp.Message, resp.Examined, resp.Valid)
	for i, r := range resp.RankedResults {
		fmt.Fprintf(out, "#%d score %d, %d day(s): %v\n", i+1, r.Score, r.Days, r.Schedule.SectionIDs())
		if i < genShow {
			grid, err := svc.Timetable(resp.SessionID, i+1)
			if err != nil {
				return err
			}
			if err := grid.WriteText(out); err != nil {
				return err
			}
		}
	}
	return nil
}
