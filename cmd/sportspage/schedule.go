package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/TobiSchelling/sportspage/internal/schedule"
	"github.com/spf13/cobra"
)

// --- schedule command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the daily fetch in your crontab",
}

var scheduleInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Add the daily fetch to your crontab",
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := cronCommand()
		if err != nil {
			return err
		}
		changed, err := schedule.Install(schedule.SystemCrontab{}, cfg.Schedule.Cron, command)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Println("Daily fetch already scheduled.")
			return nil
		}
		fmt.Printf("Scheduled: %s\n", schedule.Entry(cfg.Schedule.Cron, command))
		fmt.Println("Cron runs in the system timezone; adjust schedule.cron if it is not Eastern.")
		return nil
	},
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the daily fetch from your crontab",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := schedule.Remove(schedule.SystemCrontab{})
		if err != nil {
			return err
		}
		if removed {
			fmt.Println("Daily fetch removed from crontab.")
		} else {
			fmt.Println("No scheduled fetch found.")
		}
		return nil
	},
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the installed entry and the next run",
	RunE: func(cmd *cobra.Command, args []string) error {
		line, ok, err := schedule.Installed(schedule.SystemCrontab{})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No scheduled fetch. Run 'sportspage schedule install'.")
			return nil
		}
		fmt.Println(line)
		next, err := schedule.NextRun(cfg.Schedule.Cron, time.Local, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Next run: %s\n", next.Format("Mon Jan 2 15:04 MST"))
		return nil
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleInstallCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(scheduleShowCmd)
}

// cronCommand is the shell command the crontab entry runs.
func cronCommand() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	exe, _ = filepath.EvalSymlinks(exe)

	command := exe
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return "", err
		}
		command += " --config " + abs
	}
	logPath := filepath.Join(cfg.GetDataDir(), "fetch.log")
	return command + " fetch >> " + logPath + " 2>&1", nil
}

// --- daemon command ---

var daemonRunNow bool

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the fetch on schedule.cron in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Fetching on %q (%s). Press Ctrl+C to stop.\n", cfg.Schedule.Cron, cfg.Location())
		return schedule.RunDaemon(ctx, cfg.Schedule.Cron, cfg.Location(), daemonRunNow, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()
			return runFetch(ctx)
		})
	},
}

func init() {
	daemonCmd.Flags().BoolVar(&daemonRunNow, "now", false, "Also fetch once at startup")
}
