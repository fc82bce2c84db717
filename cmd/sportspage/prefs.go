package main

import (
	"fmt"

	"github.com/TobiSchelling/sportspage/internal/prefs"
	"github.com/TobiSchelling/sportspage/internal/sports"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or reset the saved page preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := prefs.Load(db)
		if err != nil {
			return err
		}
		for _, key := range sports.LeagueOrder {
			mark := "shown"
			if !p.LeagueVisible(key) {
				mark = "hidden"
			}
			fmt.Printf("  %-4s %s\n", key, mark)
		}
		fmt.Printf("  box scores: %v\n", p.ShowBoxScores)
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget saved preferences and go back to the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteSetting(prefs.Key); err != nil {
			return err
		}
		fmt.Println("Preferences reset to defaults.")
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsResetCmd)
}
