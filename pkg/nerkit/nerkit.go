// Package nerkit extracts typed referents (measurements, units, named
// entities and URIs) from free text.
//
// An Engine is built once from its lookup tables and is safe for concurrent
// use. Each call to Process works on its own token stream and analyzer data.
package nerkit

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/measure"
	"github.com/cognicore/nerkit/pkg/nerkit/named"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
	"github.com/cognicore/nerkit/pkg/nerkit/uri"
)

// Engine runs the sub-parsers over documents
type Engine struct {
	ontology  *ontology.Ontology
	tokenizer *ingest.Tokenizer
	parsers   []analyzer.Parser
	logger    logging.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine. Nil tables are replaced with the embedded
// defaults.
type Options struct {
	Ontology  *ontology.Ontology
	Units     *measure.Table
	Terms     *named.Terms
	Domains   *uri.Domains
	Schemes   *uri.Schemes
	Tokenizer *ingest.Tokenizer
	Logger    logging.Logger
}

// Result is the outcome of processing one document
type Result struct {
	ID     string
	Data   *analyzer.Data
	Stream *token.Stream
}

// Referents returns the registered referents in registration order.
func (r *Result) Referents() []*referent.Referent { return r.Data.Referents() }

// OfType returns the registered referents of one type.
func (r *Result) OfType(t referent.Type) []*referent.Referent { return r.Data.OfType(t) }

// New creates an Engine with the given tables
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var err error
	units := opts.Units
	if units == nil {
		if units, err = measure.DefaultTable(); err != nil {
			return nil, fmt.Errorf("load units: %w", err)
		}
	}
	terms := opts.Terms
	if terms == nil {
		if terms, err = named.DefaultTerms(); err != nil {
			return nil, fmt.Errorf("load terms: %w", err)
		}
	}
	domains := opts.Domains
	if domains == nil {
		if domains, err = uri.DefaultDomains(); err != nil {
			return nil, fmt.Errorf("load domains: %w", err)
		}
	}
	schemes := opts.Schemes
	if schemes == nil {
		if schemes, err = uri.DefaultSchemes(); err != nil {
			return nil, fmt.Errorf("load schemes: %w", err)
		}
	}
	tokenizer := opts.Tokenizer
	if tokenizer == nil {
		tokenizer = ingest.NewTokenizer()
	}

	e := &Engine{
		ontology:  opts.Ontology,
		tokenizer: tokenizer,
		parsers: []analyzer.Parser{
			uri.NewParser(domains, schemes),
			measure.NewParser(units),
			named.NewParser(terms),
		},
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}

	nTypes, nNames := terms.Len()
	logger.Info("engine ready",
		logging.Int("units", units.Len()),
		logging.Int("term_types", nTypes),
		logging.Int("term_names", nNames),
		logging.Int("domains", domains.Len()),
		logging.Int("schemes", schemes.Len()),
		logging.Int("ontology_records", opts.Ontology.Len()))
	return e, nil
}

// Analyzers returns the analyzer names in running order.
func (e *Engine) Analyzers() []string {
	names := make([]string, len(e.parsers))
	for i, p := range e.parsers {
		names[i] = p.Name()
	}
	return names
}

// Process tokenizes text and extracts its referents
func (e *Engine) Process(ctx context.Context, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.ProcessStream(ctx, e.tokenizer.Tokenize(text))
}

// ProcessStream extracts referents from a host-supplied stream. The stream is
// modified in place. The context is checked between analyzers.
func (e *Engine) ProcessStream(ctx context.Context, s *token.Stream) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil token stream", internalerr.ErrInvalidInput)
	}
	id := e.newID()
	logger := e.logger.With(logging.String("run", id))
	kit := analyzer.NewKit(s, e.ontology, logger)

	for _, p := range e.parsers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		analyzer.Run(kit, p)
	}

	logger.Debug("document processed",
		logging.Int("referents", kit.Data.Len()),
		logging.Int("tokens", s.Len()))
	return &Result{ID: id, Data: kit.Data, Stream: s}, nil
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
