package config

// Section accessors return snapshot structs. A setting that is missing or
// holds the wrong type falls back to its default.

// DefaultMaxBlockSize is the default largest chunk moved by one plan step.
const DefaultMaxBlockSize = 8192

// FlushConfig holds flush-plan settings.
type FlushConfig struct {
	// MaxBlockSize is the largest number of bytes a single Read or Write
	// step of a flush plan touches.
	MaxBlockSize int
}

// MediumConfig holds settings for opened media.
type MediumConfig struct {
	// DetectChanges fingerprints the medium and refuses to flush when it
	// changed behind the store's back.
	DetectChanges bool

	// Watch subscribes to file system events for file media.
	Watch bool
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string
	Prefix string
}

// Flush returns flush-plan settings.
func (c *Config) Flush() FlushConfig {
	return FlushConfig{
		MaxBlockSize: c.getIntOr("flush.maxBlockSize", DefaultMaxBlockSize),
	}
}

// Medium returns medium settings.
func (c *Config) Medium() MediumConfig {
	return MediumConfig{
		DetectChanges: c.getBoolOr("medium.detectChanges", true),
		Watch:         c.getBoolOr("medium.watch", false),
	}
}

// Logging returns logger settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.getStringOr("logging.level", "info"),
		Prefix: c.getStringOr("logging.prefix", "shiftplan"),
	}
}

func (c *Config) getIntOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		return def
	}
	return v
}

func (c *Config) getBoolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		return def
	}
	return v
}

func (c *Config) getStringOr(path string, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		return def
	}
	return v
}
