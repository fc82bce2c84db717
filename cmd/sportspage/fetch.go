package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/TobiSchelling/sportspage/internal/pipeline"
	"github.com/TobiSchelling/sportspage/internal/prefs"
	"github.com/TobiSchelling/sportspage/internal/render"
	"github.com/TobiSchelling/sportspage/internal/server"
	"github.com/spf13/cobra"
)

// --- fetch command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all leagues and write the sports data artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd.Context())
	},
}

func runFetch(ctx context.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := pipeline.New(cfg, db).Run(ctx)
	printResult(result)
	return err
}

func printResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	for i, step := range result.Steps {
		fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}

	fmt.Println()
	for _, l := range result.Leagues {
		if l.Err != nil {
			fmt.Printf("  ✗ %-4s %v\n", l.Key, l.Err)
		} else {
			fmt.Printf("  ✓ %-4s %d games (%s)\n", l.Key, l.Games, l.Duration.Round(time.Millisecond))
		}
	}
	if result.Document != nil {
		fmt.Printf("\nCovering %s.\n", result.Document.DateLabel)
	}
}

// --- sample command ---

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample artifact for previewing the page offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := pipeline.SampleDocument(time.Now())
		if err := pipeline.WriteArtifact(cfg.ArtifactPath(), doc); err != nil {
			return err
		}
		fmt.Printf("Sample data written to %s\n", cfg.ArtifactPath())
		fmt.Printf("Covering: %s\n", doc.DateLabel)
		return nil
	},
}

// --- render command ---

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Export the page as a static site",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := pipeline.ReadArtifact(cfg.ArtifactPath())
		if err != nil {
			return fmt.Errorf("%w: %v", render.ErrNoArtifact, err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		p, err := prefs.Load(db)
		if err != nil {
			return err
		}

		r, err := render.New()
		if err != nil {
			return err
		}
		dir := renderOut
		if dir == "" {
			dir = cfg.GetSiteDir()
		}
		if err := r.Export(dir, doc, p, renderOptions()); err != nil {
			return err
		}
		fmt.Printf("Static page written to %s\n", dir)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output directory (default: output.site_dir)")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default: server.port)")
}

func runServe(ctx context.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var loader server.Loader = server.FileLoader{Path: cfg.ArtifactPath()}
	if cfg.Server.DataURL != "" {
		loader = server.NewHTTPLoader(cfg.Server.DataURL)
	}
	srv, err := server.New(db, loader, renderOptions())
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting server at http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")
	return server.Serve(ctx, srv, port)
}

// --- run command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch all leagues, then serve the page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runFetch(cmd.Context()); err != nil {
			return err
		}
		fmt.Println()
		return runServe(cmd.Context())
	},
}

func init() {
	runCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default: server.port)")
}

// --- menu command ---

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Choose interactively between fetching, serving or both",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("The Sports Page")
		fmt.Println()
		fmt.Println("  1) Fetch data")
		fmt.Println("  2) Serve page")
		fmt.Println("  3) Fetch, then serve")
		fmt.Println("  q) Quit")
		fmt.Print("\nChoice [1-3, q]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		switch strings.TrimSpace(strings.ToLower(answer)) {
		case "1":
			return runFetch(cmd.Context())
		case "2":
			return runServe(cmd.Context())
		case "3":
			if err := runFetch(cmd.Context()); err != nil {
				return err
			}
			return runServe(cmd.Context())
		case "q", "":
			return nil
		default:
			return fmt.Errorf("unknown choice %q", strings.TrimSpace(answer))
		}
	},
}
