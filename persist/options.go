package persist

import (
	"github.com/hupe1980/idkit"
	"github.com/hupe1980/idkit/codec"
)

// Options configures snapshot save/load behavior.
type Options struct {
	// Codec encodes map values on save. Load ignores it: snapshots
	// record the codec name and are decoded with that codec.
	Codec codec.Codec

	// Compression selects the body compression on save.
	Compression CompressionType

	// Logger receives debug records for completed saves/loads.
	Logger *idkit.Logger
}

// WithCodec sets the value codec used for new snapshots. Passing nil
// keeps the default.
func WithCodec(c codec.Codec) func(*Options) {
	return func(o *Options) {
		if c != nil {
			o.Codec = c
		}
	}
}

// WithCompression sets the snapshot body compression.
func WithCompression(c CompressionType) func(*Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithLogger sets the logger. Passing nil keeps the noop logger.
func WithLogger(l *idkit.Logger) func(*Options) {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func applyOptions(optFns []func(*Options)) Options {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionNone,
		Logger:      idkit.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
