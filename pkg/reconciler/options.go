package reconciler

// Options configure a reconciliation run.
type Options struct {
	// ProjectURL is the target project board URL, e.g.
	// https://github.com/orgs/myorg/projects/5.
	ProjectURL string

	// Workspaces names the workspaces to merge, in order. Names are
	// matched fuzzily against the workspaces the token can see. Empty
	// means every visible workspace.
	Workspaces []string

	// Mappings are SRC:DST[:CONVERSION] entries layered over the
	// default field table. An entry with an empty DST suppresses the
	// source.
	Mappings []string

	// Excludes are FIELD:GLOB patterns. A workspace or pipeline whose
	// name matches an exclusion for its field is skipped entirely.
	Excludes []string

	// DisableRemove keeps items on the board even when no selected
	// workspace mentions them.
	DisableRemove bool

	// DryRun logs every mutation without performing it. Local caches
	// are still updated so the run reports what a real one would do.
	DryRun bool

	// KeepOrphanPRs retains board membership for pull requests that
	// ZenHub links to an issue. By default such PRs are folded into
	// their issue's text and removed from the board.
	KeepOrphanPRs bool
}

// Option mutates Options.
type Option func(*Options)

// WithProjectURL sets the target project board URL.
func WithProjectURL(url string) Option {
	return func(o *Options) { o.ProjectURL = url }
}

// WithWorkspaces selects the workspaces to merge.
func WithWorkspaces(names ...string) Option {
	return func(o *Options) { o.Workspaces = append(o.Workspaces, names...) }
}

// WithMappings layers field mapping entries over the defaults.
func WithMappings(entries ...string) Option {
	return func(o *Options) { o.Mappings = append(o.Mappings, entries...) }
}

// WithExcludes adds FIELD:GLOB exclusion patterns.
func WithExcludes(patterns ...string) Option {
	return func(o *Options) { o.Excludes = append(o.Excludes, patterns...) }
}

// WithDisableRemove turns off pruning of unseen items.
func WithDisableRemove() Option {
	return func(o *Options) { o.DisableRemove = true }
}

// WithDryRun logs mutations without performing them.
func WithDryRun() Option {
	return func(o *Options) { o.DryRun = true }
}

// WithKeepOrphanPRs keeps linked pull requests on the board.
func WithKeepOrphanPRs() Option {
	return func(o *Options) { o.KeepOrphanPRs = true }
}
