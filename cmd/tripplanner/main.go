package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	appconfig "github.com/abhinavghub/trip-planner/config"
	"github.com/abhinavghub/trip-planner/internal/planner"
	srv "github.com/abhinavghub/trip-planner/internal/server"
	"github.com/abhinavghub/trip-planner/internal/telemetry"
)

func main() {
	var root = &cobra.Command{Use: "tripplanner"}

	var cfgPath string
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr != "" {
				cfg.Server.Address = serveAddr
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")

	var destination, from, to, preferences string
	var plan = &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to must not be before --from")
			}

			generator := planner.NewInferenceClient(cfg.Generation.Endpoint, cfg.Generation.Timeout)
			workflow := planner.NewWorkflow(generator, telemetry.New(nil), cfg.Generation.MaxLength)

			state := planner.NewTripState(destination, start, end, preferences)
			result, err := workflow.Run(context.Background(), state)
			if err != nil {
				return err
			}

			render(result)
			return nil
		},
	}
	plan.Flags().StringVar(&destination, "destination", "", "where to go")
	plan.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	plan.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	plan.Flags().StringVar(&preferences, "preferences", "", "free-text preferences")
	_ = plan.MarkFlagRequired("destination")
	_ = plan.MarkFlagRequired("from")
	_ = plan.MarkFlagRequired("to")

	root.AddCommand(serve, plan)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func render(result planner.TripState) {
	header := color.New(color.FgCyan, color.Bold)
	day := color.New(color.FgGreen, color.Bold)
	note := color.New(color.FgYellow)

	header.Printf("Trip to %s (%s to %s)\n\n",
		result.Destination,
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02"))

	for _, d := range result.Itinerary {
		day.Printf("Day %d\n", d.Day)
		for _, a := range d.Activities {
			fmt.Printf("  - %s\n", a)
		}
	}

	if summary, ok := result.Review["review"].(string); ok && summary != "" {
		fmt.Println()
		note.Println(summary)
	}
	if suggestions, ok := result.Review["suggestions"].([]any); ok && len(suggestions) > 0 {
		note.Println("Suggestions:")
		for _, s := range suggestions {
			note.Printf("  - %v\n", s)
		}
	}
}
