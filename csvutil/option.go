package csvutil

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/94peter/csvkit/constant"
)

type Option func(*Config)

// Config holds the formatting options of a single read or write call.
type Config struct {
	Delimiter  rune   // field delimiter, default ';'
	Newline    string // line terminator, one of "\n", "\r\n", "\r"
	Encoding   string // text encoding name, default "utf-8"
	FieldNames []string

	// RestValue is used for fields a record or line does not provide,
	// when FillMissing is set.
	RestValue   string
	FillMissing bool
	// RestKey names the record entry that receives the surplus fields of a
	// line longer than the header.
	RestKey     string
	RejectExtra bool

	Logger *zap.Logger
}

func defaultConfig() Config {
	return Config{
		Delimiter: constant.DefaultDelimiter,
		Newline:   constant.DefaultNewline,
		Encoding:  constant.DefaultEncoding,
		RestKey:   constant.DefaultRestKey,
		Logger:    zap.NewNop(),
	}
}

// newConfig builds a fresh Config for one call; options never leak between calls.
func newConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !validDelim(c.Delimiter) {
		return ErrInvalidDelimiter
	}
	switch c.Newline {
	case "\n", "\r\n", "\r":
	default:
		return ErrInvalidNewline
	}
	if _, err := lookupCharset(c.Encoding); err != nil {
		return err
	}
	return nil
}

// validDelim mirrors the delimiter rules of encoding/csv.
func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

func WithDelimiter(delimiter rune) Option {
	return func(c *Config) {
		c.Delimiter = delimiter
	}
}

func WithNewline(newline string) Option {
	return func(c *Config) {
		c.Newline = newline
	}
}

func WithCRLF(enable bool) Option {
	return func(c *Config) {
		if enable {
			c.Newline = "\r\n"
		} else {
			c.Newline = "\n"
		}
	}
}

func WithEncoding(encoding string) Option {
	return func(c *Config) {
		c.Encoding = encoding
	}
}

// WithFieldNames sets the header. On write it selects and orders the record
// fields; on read it replaces the first line of the file as header.
func WithFieldNames(names ...string) Option {
	return func(c *Config) {
		c.FieldNames = append([]string(nil), names...)
	}
}

func WithRestValue(value string) Option {
	return func(c *Config) {
		c.RestValue = value
		c.FillMissing = true
	}
}

// WithRestKey names the entry holding surplus fields on read. A long line
// fails with ErrRestKeyConflict when the header has a column of that name.
func WithRestKey(key string) Option {
	return func(c *Config) {
		c.RestKey = key
	}
}

// WithRejectExtra makes record writes fail on keys that are not in the header
// instead of dropping them.
func WithRejectExtra() Option {
	return func(c *Config) {
		c.RejectExtra = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
