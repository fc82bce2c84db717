package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/TobiSchelling/sportspage/internal/config"
	"github.com/TobiSchelling/sportspage/internal/database"
	"github.com/TobiSchelling/sportspage/internal/render"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sportspage",
	Short:   "Yesterday's scores as a morning newspaper page",
	Long:    "The Sports Page fetches results, standings, leaders and schedules for MLB, NHL, NBA and the Premier League and renders them as one page.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setLogFlags(verbose)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		setLogFlags(verbose || strings.EqualFold(cfg.Logging.Level, "debug"))
		return nil
	},
}

func setLogFlags(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(prefsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sportspage", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/sportspage/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Put FOOTBALL_DATA_API_KEY in a .env file next to it to enable the Premier League.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last fetch run and database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Artifact: %s", cfg.ArtifactPath())
		if _, err := os.Stat(cfg.ArtifactPath()); err != nil {
			fmt.Print(" (missing)")
		}
		fmt.Println()
		fmt.Printf("Database: %s\n\n", db.Path())

		last, err := db.GetLastRun()
		if err != nil {
			return err
		}
		if last == nil {
			fmt.Println("No fetch has run yet. Run 'sportspage fetch'.")
		} else {
			fmt.Println("Last run:")
			fmt.Printf("  ID: %s\n", last.ID)
			fmt.Printf("  Started: %s\n", last.StartedAt)
			fmt.Printf("  Covering: %s\n", last.DateLabel)
			fmt.Printf("  Leagues: %d (%d failed)\n", last.LeagueCount, last.ErrorCount)

			results, err := db.GetLeagueResults(last.ID)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Error != nil {
					fmt.Printf("    %-4s error: %s\n", r.League, *r.Error)
				} else {
					fmt.Printf("    %-4s %d games, %d headlines, %dms\n", r.League, r.Games, r.Headlines, r.DurationMS)
				}
			}
		}

		fmt.Println("\nHistory:")
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Failed league fetches: %d\n", stats.FailedLeagues)
		fmt.Printf("  Games recorded: %d\n", stats.GamesRecorded)
		return nil
	},
}

func openDB() (*database.DB, error) {
	return database.Open(cfg.DBPath())
}

func renderOptions() render.Options {
	return render.Options{Title: cfg.Page.Title, Note: cfg.Page.Note}
}
