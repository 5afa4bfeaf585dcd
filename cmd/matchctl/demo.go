package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"placement-workers/internal/common/logger"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"
	"placement-workers/internal/seed"
	"placement-workers/internal/store"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed an in-memory store and print every demo dashboard",
	RunE:  runDemo,
}

var demoVerbose bool

func init() {
	demoCmd.Flags().BoolVarP(&demoVerbose, "verbose", "v", false, "Log service activity to stderr")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	log := logger.NewNoOpLogger()
	if demoVerbose {
		log = logger.NewStructured("debug", "console")
	}

	mem := store.NewMemory()
	svc := placement.NewService(placement.Options{Store: mem, Logger: log})
	if _, err := seed.NewSeeder(svc, mem, log).Seed(cmd.Context()); err != nil {
		return err
	}

	users := make([]string, 0, len(seed.DemoUsers))
	for u := range seed.DemoUsers {
		users = append(users, u)
	}
	sort.Strings(users)

	dashboards := make(map[string]*placement.Dashboard, len(users))
	for _, u := range users {
		d, err := svc.Dashboard(cmd.Context(), u, seed.DemoUsers[u])
		if err != nil {
			return fmt.Errorf("dashboard for %s: %w", u, err)
		}
		dashboards[u] = d
	}

	unread := map[models.Role]int{}
	for _, d := range dashboards {
		unread[d.Role] = d.UnreadCount
	}
	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"dashboards": dashboards,
		"unread":     unread,
	})
}
