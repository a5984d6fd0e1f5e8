// Package roadmap mends the resource links of a generated learning roadmap.
// A roadmap document is JSON of the form
//
//	{"roadmap": {"label": "...", "contentFile": "markdown", "children": [...]}}
//
// Every node's contentFile is rewritten in place; all other fields,
// including ones this package does not know about, are kept as they are.
package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soumyaswe/Pravartak-AI-sub000/mend"
)

// Field names of a roadmap node.
const (
	rootKey     = "roadmap"
	labelKey    = "label"
	contentKey  = "contentFile"
	childrenKey = "children"
)

// Mender rewrites the links of one markdown document.
type Mender interface {
	Mend(ctx context.Context, text string, replace bool) (mend.Summary, error)
}

// Stats totals a walk.
type Stats struct {
	Nodes         int           `json:"nodes"`
	Failed        int           `json:"failed"`
	OriginalCount int           `json:"original_count"`
	ValidCount    int           `json:"valid_count"`
	ReplacedCount int           `json:"replaced_count"`
	Duration      time.Duration `json:"duration_ns"`
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Walker) { w.logger = l }
}

// WithReplace selects replacement (the default) or removal of dead links.
func WithReplace(replace bool) Option {
	return func(w *Walker) { w.replace = replace }
}

// WithParallelism caps how many sibling nodes are mended at once. Zero or
// less means no cap.
func WithParallelism(n int) Option {
	return func(w *Walker) { w.parallelism = n }
}

// Walker mends every node of a roadmap tree, siblings in parallel.
type Walker struct {
	mender      Mender
	logger      *zap.Logger
	replace     bool
	parallelism int
}

// tally accumulates the stats of one walk across goroutines.
type tally struct {
	mu    sync.Mutex
	stats Stats
}

func (t *tally) add(update func(*Stats)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	update(&t.stats)
}

func (t *tally) snapshot(start time.Time) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.stats
	s.Duration = time.Since(start)
	return s
}

// NewWalker creates a Walker that mends node content with m.
func NewWalker(m Mender, opts ...Option) *Walker {
	w := &Walker{mender: m, replace: true}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Walk mends doc in place. Documents without a roadmap tree, including the
// legacy format whose roadmap is an array of stages, are left untouched.
// A node whose content cannot be mended keeps its original content. Only
// cancellation of ctx aborts the walk.
func (w *Walker) Walk(ctx context.Context, doc map[string]any) (Stats, error) {
	start := time.Now()
	t := &tally{}

	switch root := doc[rootKey].(type) {
	case map[string]any:
		w.logger.Info("validating roadmap links")
		if err := w.walkNode(ctx, root, t); err != nil {
			return t.snapshot(start), err
		}
	case []any:
		w.logger.Debug("legacy roadmap format, nothing to validate", zap.Int("stages", len(root)))
	default:
		w.logger.Debug("document has no roadmap tree")
	}

	stats := t.snapshot(start)
	w.logger.Info("roadmap links validated",
		zap.Int("nodes", stats.Nodes),
		zap.Int("original", stats.OriginalCount),
		zap.Int("valid", stats.ValidCount),
		zap.Int("replaced", stats.ReplacedCount),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (w *Walker) walkNode(ctx context.Context, node map[string]any, t *tally) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mendContent(ctx, node, t)
	if err := ctx.Err(); err != nil {
		return err
	}

	children, _ := node[childrenKey].([]any)
	if len(children) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if w.parallelism > 0 {
		g.SetLimit(w.parallelism)
	}
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			continue
		}
		g.Go(func() error {
			return w.walkNode(gctx, child, t)
		})
	}
	return g.Wait()
}

func (w *Walker) mendContent(ctx context.Context, node map[string]any, t *tally) {
	label, _ := node[labelKey].(string)
	content, ok := node[contentKey].(string)
	if !ok || content == "" {
		t.add(func(s *Stats) { s.Nodes++ })
		return
	}

	sum, err := w.mender.Mend(ctx, content, w.replace)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("node validation failed, keeping original content",
				zap.String("label", label), zap.Error(err))
		}
		t.add(func(s *Stats) {
			s.Nodes++
			s.Failed++
		})
		return
	}

	node[contentKey] = sum.ValidatedText
	if sum.OriginalCount > 0 {
		w.logger.Info(fmt.Sprintf("%d/%d URLs validated", sum.ValidCount, sum.OriginalCount),
			zap.String("label", label),
			zap.Int("replaced", sum.ReplacedCount),
		)
	}
	t.add(func(s *Stats) {
		s.Nodes++
		s.OriginalCount += sum.OriginalCount
		s.ValidCount += sum.ValidCount
		s.ReplacedCount += sum.ReplacedCount
	})
}

// Decode reads a roadmap document. Numbers are kept as json.Number so that
// re-encoding does not change them.
func Decode(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}
	return nil
}
