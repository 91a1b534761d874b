package msgsync

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/loopcontext/msgsync/internal/plural"
)

// Status is the outcome of a reconciliation run.
type Status int

const (
	// StatusClean means the catalog already matches the sources.
	StatusClean Status = iota
	// StatusApplied means a diff was found and written back.
	StatusApplied
	// StatusPending means a diff was found and left unapplied, or the catalog
	// could not be opened.
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusApplied:
		return "applied"
	case StatusPending:
		return "pending"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ExitCode maps the status onto the process exit code.
func (s Status) ExitCode() int {
	if s == StatusPending {
		return 1
	}
	return 0
}

// Diff is the set difference between extracted keys and catalog base keys.
type Diff struct {
	Added   KeySet
	Removed KeySet
}

// Empty reports whether there is nothing to add or remove.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// ComputeDiff compares the keys found in sources with the base keys of c.
func ComputeDiff(c Catalog, found KeySet) Diff {
	existing := c.BaseKeys()
	return Diff{
		Added:   found.Minus(existing),
		Removed: existing.Minus(found),
	}
}

// Options select which parts of a diff are applied.
type Options struct {
	AutoAdd    bool
	AutoRemove bool
	// Lang enables the plural completeness check for that language when set.
	Lang string
}

func (o Options) mutates() bool {
	return o.AutoAdd || o.AutoRemove
}

// PluralIssue is a base key whose plural variants lack categories the catalog
// language needs.
type PluralIssue struct {
	Key     string
	Missing []string
}

// Result describes what a run found and did.
type Result struct {
	Status Status
	Diff   Diff
	// Deleted holds the stored keys removed from the catalog, plural variants included.
	Deleted      []string
	PluralIssues []PluralIssue
}

// Reconciler diffs a catalog against extracted keys, reports the diff and applies it
// when asked to.
type Reconciler struct {
	store  Store
	out    io.Writer
	logger *zap.Logger
	opts   Options
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithReconcilerLogger sets the logger for update and plural warnings.
func WithReconcilerLogger(l *zap.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReconciler writes its report to out.
func NewReconciler(store Store, out io.Writer, opts Options, ropts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:  store,
		out:    out,
		logger: zap.NewNop(),
		opts:   opts,
	}
	for _, o := range ropts {
		o(r)
	}
	return r
}

// Run loads the catalog and applies found to it. A catalog that cannot be loaded
// yields StatusPending together with the *CatalogError.
func (r *Reconciler) Run(found KeySet) (Result, error) {
	catalog, err := r.Load()
	if err != nil {
		return Result{Status: StatusPending}, err
	}
	return r.Apply(catalog, found)
}

// Load reads the catalog from the store.
func (r *Reconciler) Load() (Catalog, error) {
	catalog, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("catalog loaded", zap.String("path", r.store.Path()), zap.Int("keys", len(catalog)))
	return catalog, nil
}

// Apply compares catalog with found, reports the diff, and mutates and persists
// catalog as configured.
func (r *Reconciler) Apply(catalog Catalog, found KeySet) (Result, error) {
	res := Result{Diff: ComputeDiff(catalog, found)}
	if r.opts.Lang != "" {
		res.PluralIssues = r.checkPlurals(catalog)
	}
	if res.Diff.Empty() {
		res.Status = StatusClean
		return res, nil
	}

	w := &reportWriter{w: r.out}
	if len(res.Diff.Added) > 0 {
		w.section("Add:", res.Diff.Added.Sorted())
	}
	if r.opts.AutoAdd {
		for _, key := range res.Diff.Added.Sorted() {
			catalog.AddIdentity(key)
		}
	}
	w.line("")

	if len(res.Diff.Removed) > 0 {
		w.section("Removed:", res.Diff.Removed.Sorted())
	}
	if r.opts.AutoRemove {
		for _, base := range res.Diff.Removed.Sorted() {
			res.Deleted = append(res.Deleted, catalog.RemoveBase(base)...)
		}
	}

	if !r.opts.mutates() {
		res.Status = StatusPending
		return res, w.err
	}
	if w.err != nil {
		return Result{Status: StatusPending, Diff: res.Diff}, w.err
	}

	if err := r.store.Save(catalog); err != nil {
		return Result{Status: StatusPending, Diff: res.Diff}, fmt.Errorf("update %s: %w", r.store.Path(), err)
	}
	r.logger.Info("catalog updated",
		zap.String("path", r.store.Path()),
		zap.Int("added", len(res.Diff.Added)),
		zap.Int("deleted", len(res.Deleted)),
	)
	w.line("")
	w.line("Updated " + r.store.Path())
	res.Status = StatusApplied
	return res, w.err
}

func (r *Reconciler) checkPlurals(c Catalog) []PluralIssue {
	var issues []PluralIssue
	variants := c.Variants()
	bases := make(KeySet, len(variants))
	for base := range variants {
		bases.Add(base)
	}
	for _, base := range bases.Sorted() {
		have := variants[base]
		if len(have) == 0 {
			continue
		}
		for _, cat := range have {
			if !plural.Known(cat) {
				r.logger.Warn("unknown plural category", zap.String("key", base), zap.String("category", cat))
			}
		}
		missing := plural.Missing(r.opts.Lang, have)
		if len(missing) == 0 {
			continue
		}
		r.logger.Warn("incomplete plural forms",
			zap.String("key", base),
			zap.String("lang", r.opts.Lang),
			zap.Strings("missing", missing),
		)
		issues = append(issues, PluralIssue{Key: base, Missing: missing})
	}
	return issues
}

// reportWriter keeps the first write error so the report reads top to bottom.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) line(s string) {
	if rw.err != nil {
		return
	}
	_, rw.err = io.WriteString(rw.w, s+"\n")
}

func (rw *reportWriter) section(header string, keys []string) {
	rw.line(header)
	rw.line(strings.Repeat("-", len(header)))
	rw.line(strings.Join(keys, "\n"))
}
