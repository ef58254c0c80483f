package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvdwaal/gridday/internal/engine"
	"github.com/mvdwaal/gridday/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridday",
		Short: "GridDay - plan a day of household energy use and see what it costs",
		Long: `GridDay simulates one day on the home energy grid. Place activities
on the 24-hour timeline, watch cost, grid stress and comfort respond,
and end the day to get your grade.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gridday/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default is $HOME/.gridday/gridday.db)")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(tariffCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(dayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".gridday")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()

	if dbPath == "" {
		dbPath = viper.GetString("db")
	}
	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".gridday", "gridday.db")
	}
}

// openSession opens the store and restores the saved schedule into a
// fresh engine schedule.
func openSession() (*store.Store, *engine.Schedule, *engine.Catalog, *engine.Tariff, error) {
	st, err := store.New(dbPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	catalog := engine.DefaultCatalog()
	tariff := engine.NewTariff()
	schedule := engine.NewSchedule(catalog)

	saved, err := st.LoadSchedule()
	if err != nil {
		st.Close()
		return nil, nil, nil, nil, fmt.Errorf("loading schedule: %w", err)
	}
	schedule.Restore(saved)

	return st, schedule, catalog, tariff, nil
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the schedulable activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := engine.DefaultCatalog()

			fmt.Printf("%-15s %-20s %8s %8s %-10s\n", "ID", "NAME", "HOURS", "KW", "ROOM")
			fmt.Println("-----------------------------------------------------------------")
			for _, a := range catalog.All() {
				fmt.Printf("%-15s %-20s %8d %8.1f %-10s\n",
					a.ID, a.Name, a.DurationHours, a.PowerDrawKw, a.Room)
			}

			return nil
		},
	}
}

func tariffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tariff",
		Short: "Show the 24-hour price schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(engine.NewTariff().Slots())
		},
	}
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the day's schedule",
	}

	cmd.AddCommand(scheduleAddCmd())
	cmd.AddCommand(scheduleMoveCmd())
	cmd.AddCommand(scheduleRemoveCmd())
	cmd.AddCommand(scheduleListCmd())
	cmd.AddCommand(scheduleClearCmd())

	return cmd
}

func scheduleAddCmd() *cobra.Command {
	var activityID string
	var hour int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place an activity on the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, catalog, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			if !schedule.Add(activityID, hour) {
				if _, ok := catalog.Get(activityID); !ok {
					return fmt.Errorf("unknown activity: %s (see 'gridday catalog')", activityID)
				}
				if schedule.Contains(activityID) {
					fmt.Printf("%s is already scheduled; use 'gridday schedule move'\n", activityID)
					return nil
				}
				return fmt.Errorf("hour must be between 0 and 23")
			}

			if err := st.SaveSchedule(schedule.Snapshot()); err != nil {
				return err
			}

			activity, _ := catalog.Get(activityID)
			fmt.Printf("Scheduled %s at %02d:00 (%dh, %.1f kW)\n",
				activity.Name, hour, activity.DurationHours, activity.PowerDrawKw)

			return nil
		},
	}

	cmd.Flags().StringVarP(&activityID, "activity", "a", "", "Activity id (required)")
	cmd.Flags().IntVar(&hour, "hour", 0, "Start hour (0-23)")
	cmd.MarkFlagRequired("activity")

	return cmd
}

func scheduleMoveCmd() *cobra.Command {
	var activityID string
	var hour int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a scheduled activity to a new start hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, _, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			if !schedule.Move(activityID, hour) {
				return fmt.Errorf("%s is not scheduled or hour is out of range", activityID)
			}
			if err := st.SaveSchedule(schedule.Snapshot()); err != nil {
				return err
			}

			fmt.Printf("Moved %s to %02d:00\n", activityID, hour)
			return nil
		},
	}

	cmd.Flags().StringVarP(&activityID, "activity", "a", "", "Activity id (required)")
	cmd.Flags().IntVar(&hour, "hour", 0, "New start hour (0-23)")
	cmd.MarkFlagRequired("activity")

	return cmd
}

func scheduleRemoveCmd() *cobra.Command {
	var activityID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Take an activity off the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, _, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			schedule.Remove(activityID)
			if err := st.SaveSchedule(schedule.Snapshot()); err != nil {
				return err
			}

			fmt.Printf("Removed %s\n", activityID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&activityID, "activity", "a", "", "Activity id (required)")
	cmd.MarkFlagRequired("activity")

	return cmd
}

func scheduleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the current schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, catalog, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			snapshot := schedule.Snapshot()
			if len(snapshot) == 0 {
				fmt.Println("Nothing scheduled yet")
				return nil
			}

			fmt.Printf("%-15s %-20s %8s %8s\n", "ID", "NAME", "START", "END")
			fmt.Println("------------------------------------------------------")
			for _, sa := range snapshot {
				activity, ok := catalog.Get(sa.ActivityID)
				if !ok {
					continue
				}
				end := (sa.StartHour + activity.DurationHours) % engine.HoursPerDay
				fmt.Printf("%-15s %-20s %02d:00 %02d:00\n",
					sa.ActivityID, activity.Name, sa.StartHour, end)
			}

			return nil
		},
	}
}

func scheduleClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the whole schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ClearSchedule(); err != nil {
				return err
			}
			fmt.Println("Schedule cleared")
			return nil
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Compute cost, grid stress and comfort for the current schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, catalog, tariff, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			snapshot := schedule.Snapshot()
			out := struct {
				Schedule    []engine.ScheduledActivity `json:"schedule"`
				Metrics     engine.Metrics             `json:"metrics"`
				Suggestions []engine.Suggestion        `json:"suggestions"`
			}{
				Schedule:    snapshot,
				Metrics:     engine.ComputeMetrics(snapshot, catalog, tariff),
				Suggestions: engine.Suggestions(snapshot, catalog, tariff),
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func dayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "End, restart or review simulated days",
	}

	cmd.AddCommand(dayEndCmd())
	cmd.AddCommand(dayRestartCmd())
	cmd.AddCommand(dayHistoryCmd())

	return cmd
}

func dayEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the day and get your grade",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, schedule, catalog, tariff, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			summary := engine.EndDay(schedule.Snapshot(), catalog, tariff)
			if err := st.SaveDaySummary(summary); err != nil {
				return fmt.Errorf("archiving summary: %w", err)
			}

			fmt.Printf("Day complete!\n\n")
			fmt.Printf("  Grade:        %.1f (%s)\n", summary.Result.Grade, summary.Result.Label)
			fmt.Printf("  Total cost:   %.2f\n", summary.TotalCost)
			fmt.Printf("  Peak hours:   %d\n", summary.PeakHoursUsed)
			fmt.Printf("  Grid stress:  %d%%\n", summary.GridStressMax)
			fmt.Printf("  Comfort:      %d%%\n", summary.ComfortScore)
			fmt.Printf("\n%s\n", summary.NeighborhoodImpact)

			return nil
		},
	}
}

func dayRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Clear the schedule and start a fresh day",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, _, err := openSession()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ClearSchedule(); err != nil {
				return err
			}
			fmt.Println("Fresh day - schedule cleared")
			return nil
		},
	}
}

func dayHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed days",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			records, err := st.ListDaySummaries(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No completed days yet")
				return nil
			}

			fmt.Printf("%-20s %6s %-14s %8s %8s %8s\n", "COMPLETED", "GRADE", "LABEL", "COST", "STRESS", "COMFORT")
			fmt.Println("----------------------------------------------------------------------")
			for _, r := range records {
				fmt.Printf("%-20s %6.1f %-14s %8.2f %7d%% %7d%%\n",
					r.CompletedAt.Format("2006-01-02 15:04"), r.Summary.Result.Grade,
					r.Summary.Result.Label, r.Summary.TotalCost,
					r.Summary.GridStressMax, r.Summary.ComfortScore)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum days to show (0 for all)")

	return cmd
}
