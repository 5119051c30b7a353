package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"baby-health-tracker/internal/domain/vaccines"

	"github.com/spf13/cobra"
)

var (
	birthFlag string
	todayFlag string
)

var vaccinesCmd = &cobra.Command{
	Use:   "vaccines",
	Short: "Herramientas del calendario de vacunas",
}

var vaccinesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Resuelve el estado del catálogo para una fecha de nacimiento (sin agendas)",
	Args:  cobra.NoArgs,
	RunE:  runVaccinesStatus,
}

func init() {
	vaccinesStatusCmd.Flags().StringVar(&birthFlag, "birth", "", "fecha de nacimiento YYYY-MM-DD")
	vaccinesStatusCmd.Flags().StringVar(&todayFlag, "today", "", "fecha de referencia YYYY-MM-DD (default hoy)")
	_ = vaccinesStatusCmd.MarkFlagRequired("birth")
	vaccinesCmd.AddCommand(vaccinesStatusCmd)
}

func runVaccinesStatus(cmd *cobra.Command, _ []string) error {
	birth, err := time.Parse("2006-01-02", birthFlag)
	if err != nil {
		return fmt.Errorf("--birth: %w", err)
	}
	today := time.Now()
	if todayFlag != "" {
		if today, err = time.Parse("2006-01-02", todayFlag); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	rep := vaccines.Resolve(birth, vaccines.Catalog(), nil, today)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VACCINE\tWINDOW\tSTATE")
	for _, it := range rep.Items {
		fmt.Fprintf(tw, "%s\t%s .. %s\t%s\n",
			it.Vaccine.ID,
			it.WindowStart.Format("2006-01-02"),
			it.WindowEnd.Format("2006-01-02"),
			it.State,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, st := range vaccines.States {
		if n := rep.Counts[st]; n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", st, n)
		}
	}
	return nil
}
