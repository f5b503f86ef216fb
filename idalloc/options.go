package idalloc

// Options configures allocator construction.
type Options struct {
	// Start is the initial high-water mark. Indices below Start are
	// never issued, so a caller can reserve a low range for fixed,
	// well-known identifiers before dynamic allocation begins.
	Start uint64

	// ReleaseChecks enables precondition checking on Release: a
	// double release or a release of a never-issued identifier
	// panics instead of silently corrupting the free-list. The check
	// tracks the free set in a roaring bitmap; keep it off outside of
	// tests and debug builds.
	ReleaseChecks bool
}

// DefaultOptions are the options used when none are given.
var DefaultOptions = Options{}

// WithStart sets the initial high-water mark.
func WithStart(n uint64) func(*Options) {
	return func(o *Options) {
		o.Start = n
	}
}

// WithReleaseChecks enables debug precondition checking on Release.
func WithReleaseChecks() func(*Options) {
	return func(o *Options) {
		o.ReleaseChecks = true
	}
}
