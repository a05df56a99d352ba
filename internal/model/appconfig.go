package model

// DefaultContainerWidth is the diagram width used when no mount width is
// known, matching the viewer's fallback.
const DefaultContainerWidth = 760.0

// AppConfig holds application-wide preferences for the viewer and CLI.
type AppConfig struct {
	// Rendering defaults
	DefaultContainerWidth float64 `json:"default_container_width" toml:"default_container_width"`
	OutputDir             string  `json:"output_dir" toml:"output_dir"` // "" = next to the plan file

	// Application preferences
	RecentPlans []string `json:"recent_plans" toml:"recent_plans"`
	Theme       string   `json:"theme" toml:"theme"` // "light", "dark", "system"

	// Logging
	LogLevel string `json:"log_level" toml:"log_level"` // "debug", "info", "warn", "error"
	LogFile  string `json:"log_file" toml:"log_file"`   // "" = stderr only
}

// maxRecentPlans bounds the recent plans list.
const maxRecentPlans = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultContainerWidth: DefaultContainerWidth,
		RecentPlans:           []string{},
		Theme:                 "system",
		LogLevel:              "info",
	}
}

// ContainerWidth returns the configured diagram width, falling back to
// DefaultContainerWidth when unset or not positive.
func (c AppConfig) ContainerWidth() float64 {
	if c.DefaultContainerWidth <= 0 {
		return DefaultContainerWidth
	}
	return c.DefaultContainerWidth
}

// AddRecentPlan moves path to the front of the recent plans list, dropping
// duplicates and the oldest entries beyond the limit.
func (c *AppConfig) AddRecentPlan(path string) {
	recent := []string{path}
	for _, p := range c.RecentPlans {
		if p != path && len(recent) < maxRecentPlans {
			recent = append(recent, p)
		}
	}
	c.RecentPlans = recent
}
