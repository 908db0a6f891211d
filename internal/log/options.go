package log

// Config is a type manipulated by Option functions.
type Config struct {
	// Level is the minimum level to log at, can be debug, info, warn, error or fatal.
	Level string
	// Format is the format to write logs in, can be json or text.
	Format string
	// OmitTimestamp will omit the 'ts' field from the log messages.
	OmitTimestamp bool
	// GlobalFields are key/value pairs that show up on every log message.
	GlobalFields map[string]string
	// OutputPaths is a list of file paths to write log outputs to.
	OutputPaths []string
	// ErrorOutputPaths is a list of file paths to write internal log error outputs to.
	ErrorOutputPaths []string
}

// Option is a function that mutates Config.
type Option func(*Config)

const (
	JSONFormat = "json"
	TextFormat = "text"
)

const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
	FatalLevel = "fatal"
)

// WithOmitTimestamp sets the Config.OmitTimestamp property.
func WithOmitTimestamp() Option {
	return func(c *Config) {
		c.OmitTimestamp = true
	}
}

// WithFormat sets the Config.Format property, can be "json" or "text".
func WithFormat(fmt string) Option {
	return func(c *Config) {
		if fmt != "" {
			c.Format = fmt
		}
	}
}

// WithLevel sets the Config.Level property, can be "debug", "info", "warn", "error", or "fatal".
func WithLevel(level string) Option {
	return func(c *Config) {
		if level != "" {
			c.Level = level
		}
	}
}

// reserved keys are written by the encoder itself.
var reserved = map[string]struct{}{
	"lvl": {},
	"msg": {},
	"ts":  {},
}

// WithFields appends a key value pair to the Config.GlobalFields. Reserved keys are ignored.
func WithFields(key string, val string) Option {
	return func(c *Config) {
		if _, ok := reserved[key]; ok {
			return
		}
		if c.GlobalFields == nil {
			c.GlobalFields = make(map[string]string)
		}
		c.GlobalFields[key] = val
	}
}

// WithOutputPaths appends to Config.OutputPaths, where the logs are written.
// Valid inputs include file paths and standard streams; empty paths are skipped.
func WithOutputPaths(paths ...string) Option {
	return func(c *Config) {
		for _, path := range paths {
			if path != "" {
				c.OutputPaths = append(c.OutputPaths, path)
			}
		}
	}
}

// WithErrorOutputPaths appends to Config.ErrorOutputPaths, where zap's internal errors are written.
func WithErrorOutputPaths(paths ...string) Option {
	return func(c *Config) {
		for _, path := range paths {
			if path != "" {
				c.ErrorOutputPaths = append(c.ErrorOutputPaths, path)
			}
		}
	}
}
