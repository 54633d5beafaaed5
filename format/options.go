package format

// Option configures Decode.
type Option func(*config)

type config struct {
	strictLength bool
	maxSize      int64
}

func newConfig(options ...Option) *config {
	cfg := &config{}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

// WithStrictLength makes Decode reject GLB streams whose header length field
// disagrees with the number of bytes actually making up the header and chunks.
// By default the field is read but not checked.
//
// Returns:
//   - Option: a function that enables the length check
func WithStrictLength() Option {
	return func(c *config) {
		c.strictLength = true
	}
}

// WithMaxSize bounds the number of bytes Decode will read from the stream.
// A non-positive limit disables the bound.
//
// Parameters:
//   - n: the maximum accepted stream size in bytes
//
// Returns:
//   - Option: a function that applies the size limit
func WithMaxSize(n int64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}
