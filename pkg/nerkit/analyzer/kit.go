package analyzer

import (
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Kit bundles everything a sub-parser may read or mutate while processing one
// document.
type Kit struct {
	Stream   *token.Stream
	Data     *Data
	Ontology *ontology.Ontology
	Logger   logging.Logger
}

// NewKit creates a kit for one document. A nil logger is replaced with a no-op.
func NewKit(s *token.Stream, onto *ontology.Ontology, logger logging.Logger) *Kit {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Kit{Stream: s, Data: NewData(), Ontology: onto, Logger: logger}
}

// Candidate is a proposed referent and the span that justifies it.
type Candidate struct {
	Span     token.Span
	Referent *referent.Referent
}

// Match is the outcome of one successful sub-parser attempt. Candidates are
// committed in order, so nested spans come before the spans enclosing them.
type Match struct {
	Candidates []Candidate
}

// Add appends a candidate.
func (m *Match) Add(begin, end token.ID, r *referent.Referent) {
	m.Candidates = append(m.Candidates, Candidate{Span: token.Span{Begin: begin, End: end}, Referent: r})
}

// Empty reports whether the match has no candidates.
func (m Match) Empty() bool { return len(m.Candidates) == 0 }

// Parser is a sub-parser. TryParse inspects the stream at id without mutating it
// and reports a match or no-match.
type Parser interface {
	Name() string
	TryParse(kit *Kit, id token.ID) (Match, bool)
}

// Commit registers and embeds every candidate of m. All candidate spans are
// tracked before the first embed, so spans shifted by an earlier embed still
// address live tokens. Commit returns the rightmost composite token.
func (k *Kit) Commit(m Match) token.ID {
	s := k.Stream
	spans := make([]*token.Span, len(m.Candidates))
	for i := range m.Candidates {
		sp := m.Candidates[i].Span
		spans[i] = &sp
		s.Track(spans[i])
	}
	defer func() {
		for _, sp := range spans {
			s.Untrack(sp)
		}
	}()

	for i, c := range m.Candidates {
		canon := k.Data.Register(c.Referent)
		if canon != c.Referent {
			for _, later := range m.Candidates[i+1:] {
				later.Referent.ReplaceNested(c.Referent, canon)
			}
		}
		sp := spans[i]
		begin, end := s.Get(sp.Begin).Begin, s.Get(sp.End).End
		s.Embed(sp.Begin, sp.End, canon)
		canon.AddOccurrence(begin, end)
	}

	last := token.NoID
	for _, sp := range spans {
		id := s.Resolve(sp.End)
		if last == token.NoID || s.Get(id).End > s.Get(last).End {
			last = id
		}
	}
	return last
}

// Run offers every live position of the stream to p once, left to right. A
// match is committed and the walk resumes after it. Run returns the number of
// committed matches.
func Run(k *Kit, p Parser) int {
	s := k.Stream
	n := 0
	for id := s.First(); id != token.NoID; {
		m, ok := p.TryParse(k, id)
		if !ok || m.Empty() {
			id = s.Next(id)
			continue
		}
		last := k.Commit(m)
		n++
		id = s.Next(last)
	}
	k.Logger.Debug("analyzer pass complete",
		logging.String("analyzer", p.Name()),
		logging.Int("matches", n),
		logging.Int("tokens", s.Len()))
	return n
}
