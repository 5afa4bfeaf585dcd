package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"placement-workers/pkg/registry"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Inspect the activity catalog used by process modelers",
}

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued task types",
	RunE:  runActivitiesList,
}

var activitiesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for missing fields and duplicates",
	RunE:  runActivitiesValidate,
}

var (
	activitiesPath     string
	activitiesRequired []string
)

func init() {
	activitiesCmd.PersistentFlags().StringVar(&activitiesPath, "path", registry.DefaultPath, "Path to the activity registry")
	activitiesValidateCmd.Flags().StringSliceVar(&activitiesRequired, "require", nil, "Task types that must be catalogued")

	activitiesCmd.AddCommand(activitiesListCmd, activitiesValidateCmd)
	rootCmd.AddCommand(activitiesCmd)
}

func runActivitiesList(cmd *cobra.Command, _ []string) error {
	reg, err := registry.LoadRegistry(activitiesPath)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT")
	for _, a := range reg.Activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout)
	}
	return w.Flush()
}

func runActivitiesValidate(cmd *cobra.Command, _ []string) error {
	reg, err := registry.LoadRegistry(activitiesPath)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if missing := reg.Missing(activitiesRequired); len(missing) > 0 {
		return fmt.Errorf("task types not catalogued: %v", missing)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registry ok: %d activities (version %s)\n", len(reg.Activities), reg.Version)
	return nil
}
