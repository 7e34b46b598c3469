package tui

// CardFieldConfig selects which optional card fields the board renders.
type CardFieldConfig struct {
	ShowDescription bool
	ShowBadges      bool
}

type Option func(*Model)

func DefaultCardFieldConfig() CardFieldConfig {
	return CardFieldConfig{
		ShowDescription: false,
		ShowBadges:      true,
	}
}

func WithCardFieldConfig(cfg CardFieldConfig) Option {
	return func(m *Model) {
		m.cardFields = cfg
	}
}

// WithLaneView starts the board in swimlane view when grouping is active.
func WithLaneView(enabled bool) Option {
	return func(m *Model) {
		m.laneView = enabled
	}
}
