package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the catalog and print a per-course summary",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	_, svc, err := setup()
	if err != nil {
		return err
	}
	defer teardown(svc)

	sum, err := svc.Scan(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d courses, %d sections (%d open), %d defects\n\n",
		sum.Courses, sum.Sections, sum.OpenSections, sum.Defects)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tOPEN\tTOTAL")
	for _, c := range sum.PerCourse {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Code, c.Name, c.Open, c.Total)
	}
	return tw.Flush()
}
