package describe

import (
	"go.uber.org/zap"

	"rowbinder/codec"
	"rowbinder/introspect"
)

// Options configures a describer.
type Options struct {
	// Logger receives debug events; nil means zap.NewNop.
	Logger *zap.Logger
	// Codecs is the codec table used for default codecs and codec names; nil means
	// codec.Default().
	Codecs *codec.Table
	// Overlay adds YAML annotations to the struct tags and DescribeRow hints. May be nil.
	Overlay *introspect.Overlay
	// StopAtFirstError makes discovery give up at the first defect instead of reporting all.
	StopAtFirstError bool
}

// DefaultOptions returns the default options: no logging, the default codec table, no
// overlay, every defect reported.
func DefaultOptions() Options {
	return Options{
		Logger: zap.NewNop(),
		Codecs: codec.Default(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Codecs == nil {
		o.Codecs = codec.Default()
	}

	return o
}
