package gltf

import (
	"github.com/charmbracelet/log"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/format"
)

// ParseOption configures Parse and Decode.
type ParseOption func(*parseConfig)

type parseConfig struct {
	distinctInterpolation bool
	logger                *log.Logger
	containerOptions      []format.Option
}

func newParseConfig(options ...ParseOption) *parseConfig {
	cfg := &parseConfig{}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = common.Logger()
	}
	return cfg
}

// WithDistinctInterpolation keeps STEP and CATMULLROMSPLINE as their own
// interpolation values instead of folding them into LINEAR.
func WithDistinctInterpolation() ParseOption {
	return func(c *parseConfig) {
		c.distinctInterpolation = true
	}
}

// WithLogger sets the logger used for debug tracing of the parse stages.
// By default the shared common.Logger is used.
func WithLogger(l *log.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = l
	}
}

// WithContainerOptions forwards options to format.Decode. Only Decode uses them.
func WithContainerOptions(options ...format.Option) ParseOption {
	return func(c *parseConfig) {
		c.containerOptions = append(c.containerOptions, options...)
	}
}
