// Package main provides daykeep-eod, the non-interactive end-of-day job.
// It rolls incomplete tasks forward to tomorrow, records the day's
// progress entry, and prints the daily report. With -summary it also
// asks the reviewer agent for a short narrative of the day.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/daykeep/daykeep/pkg/agent"
	"github.com/daykeep/daykeep/pkg/agent/prompts"
	appconfig "github.com/daykeep/daykeep/pkg/config"
	"github.com/daykeep/daykeep/pkg/progress"
	"github.com/daykeep/daykeep/pkg/schedule"
	"github.com/daykeep/daykeep/pkg/tasks"
	"github.com/daykeep/daykeep/pkg/types"
)

const defaultModel = "llama-3.3-70b-versatile"

// Config holds the end-of-day job configuration
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	DataDir    string
	ConfigPath string
	Summary    bool
}

func main() {
	config := parseFlags()

	if err := run(context.Background(), config); err != nil {
		log.Fatalf("End-of-day error: %v", err)
	}
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "API key, only needed with -summary (or set GROQ_API_KEY / OPENAI_API_KEY)")
	flag.StringVar(&config.BaseURL, "base-url", "", "OpenAI-compatible API base URL (defaults to the Groq endpoint)")
	flag.StringVar(&config.Model, "model", defaultModel, "LLM model for the reviewer summary")
	flag.StringVar(&config.DataDir, "data-dir", "", "Data directory (default: ~/.daykeep/data)")
	flag.StringVar(&config.ConfigPath, "config", "", "Config file path (default: ~/.daykeep/config.json)")
	flag.BoolVar(&config.Summary, "summary", false, "Ask the reviewer agent for a narrative summary of the day")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "daykeep-eod - End-of-day rollover and progress snapshot\n\n")
		fmt.Fprintf(os.Stderr, "Usage: daykeep-eod [options]\n\n")
		fmt.Fprintf(os.Stderr, "Rolls incomplete tasks forward to tomorrow, records today's\n")
		fmt.Fprintf(os.Stderr, "progress entry, and prints the daily report.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = appconfig.GetData().GetDir()
		if err != nil {
			return err
		}
	}

	taskStore, err := tasks.NewStore(filepath.Join(dataDir, "tasks.csv"))
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	scheduleStore, err := schedule.NewStore(filepath.Join(dataDir, "schedule.csv"), nil)
	if err != nil {
		return fmt.Errorf("failed to open schedule store: %w", err)
	}
	progressStore, err := progress.NewStore(filepath.Join(dataDir, "progress.csv"))
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}

	today := time.Now()
	tomorrow := today.AddDate(0, 0, 1)

	moved, err := taskStore.Rollover(today, tomorrow)
	if err != nil {
		return fmt.Errorf("rollover failed: %w", err)
	}

	// The progress snapshot is taken after the rollover, so pending only
	// counts tasks that stayed on today.
	report := taskStore.DailyReport(today)
	entry := progress.Entry{
		Date:       today,
		Completed:  report.Completed,
		Pending:    report.Pending + report.InProgress,
		RolledOver: moved,
	}
	recorded, err := progressStore.Record(entry)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}

	fmt.Println(report.String())
	fmt.Printf("Rolled %d task(s) over to %s.\n", moved, tomorrow.Format(tasks.DateFormat))
	fmt.Printf("Productivity score: %.2f\n", recorded.Score)
	fmt.Printf("Scheduled time today: %d minutes\n", scheduleStore.TotalMinutes(today.Weekday().String()))

	if !config.Summary {
		return nil
	}

	insights := progressStore.Window(progress.DefaultWindowDays)
	return printReviewerSummary(ctx, config, report.String(), insights.String())
}

// printReviewerSummary runs a single non-interactive reviewer turn over
// the day's report and recent trend, streaming the reply to stdout.
func printReviewerSummary(ctx context.Context, config *Config, report, insights string) error {
	provider, err := appconfig.BuildProvider(config.Model, config.BaseURL, config.APIKey, defaultModel)
	if err != nil {
		return err
	}

	reviewer := agent.NewDefaultAgent(provider, agent.WithPersona(prompts.ReviewerPersonaPrompt))
	if err := reviewer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reviewer agent: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = reviewer.Shutdown(shutdownCtx)
	}()

	prompt := fmt.Sprintf(
		"The working day is over. Here is today's report:\n\n%s\n\nRecent trend:\n\n%s\n\nGive me a short review of the day and what to focus on tomorrow.",
		report, insights)

	channels := reviewer.GetChannels()
	channels.Input <- types.NewUserInput(prompt)

	fmt.Println("\nReviewer summary:")
	for event := range channels.Event {
		switch event.Type {
		case types.EventTypeMessageContent:
			fmt.Print(event.Content)
		case types.EventTypeMessageEnd:
			fmt.Println()
		case types.EventTypeError:
			return fmt.Errorf("reviewer error: %w", event.Error)
		case types.EventTypeTurnEnd:
			return nil
		}
	}

	return nil
}
