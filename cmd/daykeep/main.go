// Package main provides the daykeep conversational task assistant.
// It runs two agents over a shared set of task, schedule, and progress
// stores: a day-to-day assistant for managing tasks against a
// time-blocked schedule, and an end-of-day reviewer for looking back at
// how the day went.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/daykeep/daykeep/pkg/agent"
	"github.com/daykeep/daykeep/pkg/agent/prompts"
	"github.com/daykeep/daykeep/pkg/agent/tools"
	appconfig "github.com/daykeep/daykeep/pkg/config"
	"github.com/daykeep/daykeep/pkg/executor/cli"
	"github.com/daykeep/daykeep/pkg/executor/tui"
	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/progress"
	"github.com/daykeep/daykeep/pkg/schedule"
	"github.com/daykeep/daykeep/pkg/session"
	"github.com/daykeep/daykeep/pkg/tasks"
	calendartools "github.com/daykeep/daykeep/pkg/tools/calendar"
	tasktools "github.com/daykeep/daykeep/pkg/tools/tasks"
)

const (
	version      = "0.1.0"
	defaultModel = "llama-3.3-70b-versatile"
)

// Config holds the application configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	DataDir     string
	ConfigPath  string
	Surface     string
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("daykeep v%s\n", version)
		return
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "API key (or set GROQ_API_KEY / OPENAI_API_KEY env var)")
	flag.StringVar(&config.BaseURL, "base-url", "", "OpenAI-compatible API base URL (defaults to the Groq endpoint)")
	flag.StringVar(&config.Model, "model", defaultModel, "LLM model to use")
	flag.StringVar(&config.DataDir, "data-dir", "", "Data directory for task, schedule, and progress files (default: ~/.daykeep/data)")
	flag.StringVar(&config.ConfigPath, "config", "", "Config file path (default: ~/.daykeep/config.json)")
	flag.StringVar(&config.Surface, "surface", "", "Chat surface: tui or cli (default: from config)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "daykeep - A conversational task assistant\n\n")
		fmt.Fprintf(os.Stderr, "Usage: daykeep [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  GROQ_API_KEY       Groq API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key (checked after GROQ_API_KEY)\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  daykeep                                  # Full-screen TUI chat\n")
		fmt.Fprintf(os.Stderr, "  daykeep -surface cli                     # Plain line-oriented chat\n")
		fmt.Fprintf(os.Stderr, "  daykeep -model openai/gpt-oss-120b\n")
		fmt.Fprintf(os.Stderr, "  daykeep -base-url https://api.openai.com/v1 -model gpt-4o-mini\n")
	}

	flag.Parse()
	return config
}

// stores bundles the persistent state shared by both agents.
type stores struct {
	tasks    *tasks.Store
	schedule *schedule.Store
	progress *progress.Store
	sessions *session.Store
}

// openStores opens the CSV and SQLite stores under the data directory,
// seeding the schedule from the configured template on first run.
func openStores(dataDir string) (*stores, error) {
	taskStore, err := tasks.NewStore(filepath.Join(dataDir, "tasks.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}

	var tmpl *schedule.Template
	if templatePath := appconfig.GetData().GetScheduleTemplate(); templatePath != "" {
		tmpl, err = schedule.LoadTemplate(templatePath)
		if err != nil {
			return nil, err
		}
	}

	scheduleStore, err := schedule.NewStore(filepath.Join(dataDir, "schedule.csv"), tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule store: %w", err)
	}

	progressStore, err := progress.NewStore(filepath.Join(dataDir, "progress.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}

	sessionStore, err := session.Open(filepath.Join(dataDir, "sessions.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &stores{
		tasks:    taskStore,
		schedule: scheduleStore,
		progress: progressStore,
		sessions: sessionStore,
	}, nil
}

// buildAgent constructs a persona'd agent with the task and calendar
// tools registered and any saved transcript restored.
func buildAgent(name, persona string, provider llm.Provider, st *stores) (*agent.DefaultAgent, error) {
	opts := []agent.AgentOption{agent.WithPersona(persona)}

	history, err := st.sessions.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s session: %w", name, err)
	}
	if len(history) > 0 {
		opts = append(opts, agent.WithHistory(history))
	}

	ag := agent.NewDefaultAgent(provider, opts...)

	taskTools := []tools.Tool{
		tasktools.NewAddTaskTool(st.tasks, st.schedule),
		tasktools.NewListTasksTool(st.tasks),
		tasktools.NewUpdateTaskStatusTool(st.tasks),
		tasktools.NewRolloverTasksTool(st.tasks, st.progress),
		tasktools.NewTodayScheduleTool(st.tasks, st.schedule),
		tasktools.NewDailyReportTool(st.tasks, st.schedule),
		tasktools.NewProductivityInsightsTool(st.progress),
	}

	for _, tool := range taskTools {
		if err := ag.RegisterTool(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool: %w", err)
		}
	}

	// The calendar tools stay hidden from the agent until credentials
	// are configured.
	cal := appconfig.GetCalendar()
	calendarTools := []tools.Tool{
		calendartools.NewSyncTaskTool(st.tasks, cal.GetCredentialsPath(), cal.GetTokenPath(), cal.GetCalendarID()),
		calendartools.NewListEventsTool(cal.GetCredentialsPath(), cal.GetTokenPath(), cal.GetCalendarID()),
	}
	for _, tool := range calendarTools {
		if err := ag.RegisterTool(tool); err != nil {
			return nil, fmt.Errorf("failed to register calendar tool: %w", err)
		}
	}

	return ag, nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	provider, err := appconfig.BuildProvider(config.Model, config.BaseURL, config.APIKey, defaultModel)
	if err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir, err = appconfig.GetData().GetDir()
		if err != nil {
			return err
		}
	}

	st, err := openStores(dataDir)
	if err != nil {
		return err
	}
	defer st.sessions.Close()

	assistant, err := buildAgent("assistant", prompts.AssistantPersonaPrompt, provider, st)
	if err != nil {
		return err
	}
	reviewer, err := buildAgent("reviewer", prompts.ReviewerPersonaPrompt, provider, st)
	if err != nil {
		return err
	}

	ui := appconfig.GetUI()
	surface := config.Surface
	if surface == "" {
		surface = ui.GetSurface()
	}

	switch surface {
	case appconfig.SurfaceCLI:
		executor := cli.NewExecutor(
			cli.WithAgent("assistant", assistant),
			cli.WithAgent("reviewer", reviewer),
			cli.WithSessionStore(st.sessions),
			cli.WithShowThinking(ui.GetShowThinking()),
		)
		return executor.Run(ctx)

	case appconfig.SurfaceTUI:
		executor := tui.NewExecutor(
			tui.WithAgent("assistant", assistant),
			tui.WithAgent("reviewer", reviewer),
			tui.WithSessionStore(st.sessions),
			tui.WithShowThinking(ui.GetShowThinking()),
		)
		return executor.Run(ctx)

	default:
		return fmt.Errorf("unknown surface %q (want %q or %q)", surface, appconfig.SurfaceTUI, appconfig.SurfaceCLI)
	}
}
