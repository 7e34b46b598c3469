package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hylla/tavle/internal/adapters/storage/sqlite"
	"github.com/hylla/tavle/internal/app"
	"github.com/hylla/tavle/internal/board"
	"github.com/hylla/tavle/internal/config"
	"github.com/hylla/tavle/internal/platform"
	"github.com/hylla/tavle/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("tavle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		appName    string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TAVLE_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TAVLE_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "tavle"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "tavle %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		return nil
	case "":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TAVLE_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("TAVLE_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, closeLogger, err := newRuntimeLogger(appName, devMode, paths.DataDir, cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	defer closeLogger()

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "config_path", configPath, "db_path", cfg.Database.Path)

	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()

	if err := store.SeedIfEmpty(ctx, seedColumns(cfg)); err != nil {
		logger.Error("board seed failed", "err", err)
		return fmt.Errorf("seed board: %w", err)
	}

	var svc *app.Service
	persistBoard := func(reason string) {
		if err := store.ReplaceBoard(ctx, svc.Columns()); err != nil {
			logger.Error("board persist failed", "reason", reason, "err", err)
		}
	}
	hooks := app.Hooks{
		OnCardMove: func(cardID, fromColumnID, toColumnID string, newIndex int) {
			logger.Info("card moved", "card", cardID, "from", fromColumnID, "to", toColumnID, "index", newIndex)
			if err := store.MoveCard(ctx, cardID, toColumnID, newIndex); err != nil {
				logger.Error("card move persist failed", "card", cardID, "err", err)
			}
		},
		OnColumnToggle: func(columnID string, collapsed bool) {
			logger.Info("column toggled", "column", columnID, "collapsed", collapsed)
			persistBoard("column toggle")
		},
		OnQuickAdd: func(columnID, title string) {
			logger.Info("card added", "column", columnID, "title", title)
			persistBoard("quick add")
		},
		OnCardClick: func(card board.Card) {
			logger.Debug("card activated", "card", card.ID, "title", card.Title)
		},
	}

	svc = app.NewService(app.ServiceConfig{
		GroupField:          cfg.Swimlanes.GroupBy,
		LaneRules:           laneRules(cfg.Swimlanes.Lanes),
		FormatRules:         formatRules(cfg.Rules),
		Layout:              layoutConfig(cfg.Layout),
		VirtualizeThreshold: cfg.Board.VirtualizeThreshold,
		Hooks:               hooks,
		Coordinator:         dragLogger{logger: logger},
		Source:              store,
		Store:               store,
		IDGen:               uuid.NewString,
	})

	m := tui.NewModel(svc, tui.WithLaneView(cfg.Swimlanes.GroupBy != "" && len(cfg.Swimlanes.Lanes) > 0))
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// newRuntimeLogger builds the runtime logger. The TUI owns the terminal, so
// log events go to a file sink in dev mode and are discarded otherwise.
func newRuntimeLogger(appName string, devMode bool, dataDir string, cfg config.LoggingConfig) (*charmLog.Logger, func(), error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	sink := io.Discard
	closeSink := func() {}
	logPath := strings.TrimSpace(cfg.File)
	if logPath == "" && devMode {
		logPath = filepath.Join(dataDir, appName+".log")
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = logFile
		closeSink = func() { _ = logFile.Close() }
	}

	logger := charmLog.NewWithOptions(sink, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	return logger, closeSink, nil
}

// dragLogger is the injected drag coordinator: it mirrors gesture lifecycle
// events into the runtime log.
type dragLogger struct {
	logger *charmLog.Logger
}

func (d dragLogger) StartDrag(item app.DragItem) {
	d.logger.Debug("drag started", "card", item.CardID, "column", item.SourceColumn, "lane", item.SourceLane)
}

func (d dragLogger) EndDrag(targetID string) {
	d.logger.Debug("drag ended", "target", targetID)
}

// seedColumns builds the first-run board from the configured columns with a
// few sample cards so formatting and grouping are visible immediately.
func seedColumns(cfg config.Config) []board.Column {
	columns := make([]board.Column, 0, len(cfg.Board.Columns))
	for _, col := range cfg.Board.Columns {
		columns = append(columns, board.Column{
			ID:    strings.TrimSpace(strings.ToLower(col.ID)),
			Title: strings.TrimSpace(col.Title),
			Limit: col.Limit,
			Cards: []board.Card{},
		})
	}
	if len(columns) == 0 {
		return columns
	}
	samples := []struct {
		title    string
		assignee string
		priority string
	}{
		{"Sketch the board layout", "ada", "high"},
		{"Wire up drag and drop", "lin", "medium"},
		{"Write the quick-add flow", "ada", "low"},
	}
	for _, sample := range samples {
		card, err := board.NewCard(uuid.NewString(), sample.title)
		if err != nil {
			continue
		}
		card.Fields = map[string]any{
			"assignee": sample.assignee,
			"priority": sample.priority,
		}
		card.Badges = []string{sample.priority}
		columns[0].Cards = append(columns[0].Cards, card)
	}
	return columns
}

// laneRules maps configured lanes onto engine transfer rules.
func laneRules(lanes []config.LaneConfig) map[string]board.LaneRule {
	if len(lanes) == 0 {
		return nil
	}
	rules := make(map[string]board.LaneRule, len(lanes))
	for _, lane := range lanes {
		rules[strings.TrimSpace(lane.ID)] = board.LaneRule{
			AcceptFrom: append([]string(nil), lane.AcceptFrom...),
		}
	}
	return rules
}

// formatRules maps configured conditional rules onto engine format rules.
func formatRules(rules []config.RuleConfig) []board.FormatRule {
	out := make([]board.FormatRule, 0, len(rules))
	for _, rule := range rules {
		op := board.Operator(strings.TrimSpace(strings.ToLower(rule.Operator)))
		var value any = rule.Value
		if op == board.OpIn {
			value = append([]string(nil), rule.Values...)
		}
		out = append(out, board.FormatRule{
			Field:           rule.Field,
			Operator:        op,
			Value:           value,
			BackgroundColor: rule.BackgroundColor,
			BorderColor:     rule.BorderColor,
		})
	}
	return out
}

// layoutConfig maps persisted layout settings onto the engine layout config.
func layoutConfig(cfg config.LayoutConfig) app.LayoutConfig {
	return app.LayoutConfig{
		DefaultWidth: cfg.DefaultWidth,
		MinWidth:     cfg.MinWidth,
		MaxWidth:     cfg.MaxWidth,
		StorageKey:   cfg.StorageKey,
	}
}
