package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
	Board     BoardConfig     `toml:"board"`
	Layout    LayoutConfig    `toml:"layout"`
	Swimlanes SwimlanesConfig `toml:"swimlanes"`
	Rules     []RuleConfig    `toml:"rules"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type BoardConfig struct {
	Columns             []ColumnConfig `toml:"columns"`
	VirtualizeThreshold int            `toml:"virtualize_threshold"`
}

type ColumnConfig struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Limit int    `toml:"limit"`
}

type LayoutConfig struct {
	DefaultWidth int    `toml:"default_width"`
	MinWidth     int    `toml:"min_width"`
	MaxWidth     int    `toml:"max_width"`
	StorageKey   string `toml:"storage_key"`
}

type SwimlanesConfig struct {
	GroupBy string       `toml:"group_by"`
	Lanes   []LaneConfig `toml:"lanes"`
}

type LaneConfig struct {
	ID         string   `toml:"id"`
	AcceptFrom []string `toml:"accept_from"`
}

type RuleConfig struct {
	Field           string   `toml:"field"`
	Operator        string   `toml:"operator"`
	Value           string   `toml:"value"`
	Values          []string `toml:"values"`
	BackgroundColor string   `toml:"background_color"`
	BorderColor     string   `toml:"border_color"`
}

var validOperators = []string{"equals", "not_equals", "contains", "in"}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "todo", Title: "To Do"},
		{ID: "progress", Title: "In Progress", Limit: 3},
		{ID: "done", Title: "Done"},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Board: BoardConfig{
			Columns:             defaultColumns(),
			VirtualizeThreshold: 50,
		},
		Layout: LayoutConfig{
			DefaultWidth: 36,
			MinWidth:     20,
			MaxWidth:     60,
			StorageKey:   "tavle.columns.width",
		},
		Swimlanes: SwimlanesConfig{
			GroupBy: "",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if strings.TrimSpace(c.Logging.Level) == "" {
		return errors.New("logging.level is required")
	}

	if len(c.Board.Columns) == 0 {
		return errors.New("board.columns must include at least one column")
	}
	seenColumnID := map[string]struct{}{}
	for idx := range c.Board.Columns {
		col := c.Board.Columns[idx]
		col.ID = strings.TrimSpace(strings.ToLower(col.ID))
		col.Title = strings.TrimSpace(col.Title)
		if col.ID == "" {
			return fmt.Errorf("board.columns[%d].id is required", idx)
		}
		if col.Title == "" {
			return fmt.Errorf("board.columns[%d].title is required", idx)
		}
		if col.Limit < 0 {
			return fmt.Errorf("board.columns[%d].limit must be >= 0", idx)
		}
		if _, ok := seenColumnID[col.ID]; ok {
			return fmt.Errorf("board.columns[%d].id is duplicated: %s", idx, col.ID)
		}
		seenColumnID[col.ID] = struct{}{}
		c.Board.Columns[idx] = col
	}
	if c.Board.VirtualizeThreshold < 0 {
		return errors.New("board.virtualize_threshold must be >= 0")
	}

	if c.Layout.DefaultWidth <= 0 {
		return errors.New("layout.default_width must be > 0")
	}
	if c.Layout.MinWidth < 0 || c.Layout.MaxWidth < 0 {
		return errors.New("layout width bounds must be >= 0")
	}
	if c.Layout.MinWidth > 0 && c.Layout.MaxWidth > 0 && c.Layout.MinWidth > c.Layout.MaxWidth {
		return fmt.Errorf("layout.min_width %d exceeds layout.max_width %d", c.Layout.MinWidth, c.Layout.MaxWidth)
	}

	for idx, lane := range c.Swimlanes.Lanes {
		if strings.TrimSpace(lane.ID) == "" {
			return fmt.Errorf("swimlanes.lanes[%d].id is required", idx)
		}
	}
	if len(c.Swimlanes.Lanes) > 0 && strings.TrimSpace(c.Swimlanes.GroupBy) == "" {
		return errors.New("swimlanes.lanes requires swimlanes.group_by")
	}

	for idx, rule := range c.Rules {
		if strings.TrimSpace(rule.Field) == "" {
			return fmt.Errorf("rules[%d].field is required", idx)
		}
		op := strings.TrimSpace(strings.ToLower(rule.Operator))
		if !slices.Contains(validOperators, op) {
			return fmt.Errorf("rules[%d].operator is invalid: %q", idx, rule.Operator)
		}
		if op == "in" && len(rule.Values) == 0 {
			return fmt.Errorf("rules[%d] with operator in requires values", idx)
		}
		if rule.BackgroundColor == "" && rule.BorderColor == "" {
			return fmt.Errorf("rules[%d] must set background_color or border_color", idx)
		}
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
