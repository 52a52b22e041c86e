package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/pkg/registry"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the Camunda task types served by the worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Default()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TASK TYPE\tCATEGORY\tENABLED\tTIMEOUT\tDESCRIPTION")
		for _, a := range reg.Activities {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n",
				a.TaskType, a.Category, config.IsWorkerEnabled(cfg, a.TaskType), a.Timeout, a.Description)
		}
		return tw.Flush()
	},
}
