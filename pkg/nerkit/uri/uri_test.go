package uri

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	domains, err := DefaultDomains()
	require.NoError(t, err)
	schemes, err := DefaultSchemes()
	require.NoError(t, err)
	return NewParser(domains, schemes)
}

func run(t *testing.T, text string) *analyzer.Kit {
	t.Helper()
	k := analyzer.NewKit(ingest.NewTokenizer().Tokenize(text), nil, nil)
	analyzer.Run(k, newParser(t))
	require.NoError(t, k.Stream.Validate())
	return k
}

func uris(k *analyzer.Kit) []string {
	var out []string
	for _, r := range k.Data.OfType(referent.TypeUri) {
		out = append(out, r.DisplayString(true, language.English))
	}
	return out
}

func TestDefaultTables(t *testing.T) {
	domains, err := DefaultDomains()
	require.NoError(t, err)
	assert.True(t, domains.Has("com"))
	assert.True(t, domains.Has("DE"))
	assert.Equal(t, "generic", domains.Group("org"))
	assert.Equal(t, "z", domains.Group("zw"))
	assert.False(t, domains.Has("xyz123notatld"))

	schemes, err := DefaultSchemes()
	require.NoError(t, err)
	assert.Greater(t, schemes.Len(), 20)
}

func TestTableErrors(t *testing.T) {
	_, err := ParseDomains([]byte("groups: []\n"))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = ParseDomains([]byte("groups:\n  - {name: x, codes: [co.uk]}\n"))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = ParseSchemes([]byte("schemes:\n  - {name: foo, kind: bar}\n"))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = ParseSchemes([]byte("schemes:\n  - {name: icq, kind: number}\n"))
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestExtraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bare domain", "Visit example.com today.", []string{"http://example.com"}},
		{"unknown tld", "Say hello.xyz123notatld now", nil},
		{"dotted words", "Pick e.g. one of them", nil},
		{"decimal", "It weighs 10.5 kg", nil},
		{"web scheme", "See https://example.com/docs/page.html?x=1 for more",
			[]string{"https://example.com/docs/page.html?x=1"}},
		{"www prefix", "Go to www.example.org now", []string{"http://example.org"}},
		{"bare www", "Go to www now", nil},
		{"bare path", "Docs at example.com/guide/install today", []string{"http://example.com/guide/install"}},
		{"port", "Open localhost:8080/api please", []string{"http://localhost:8080/api"}},
		{"ipv4", "Server 192.168.0.1 is down", []string{"http://192.168.0.1"}},
		{"email", "Write to john.doe@example.com today", []string{"john.doe@example.com"}},
		{"email without known tld", "Ping admin@intranet.local", []string{"admin@intranet.local"}},
		{"isbn", "ISBN 978-3-16-148410-0 is printed", []string{"ISBN:978-3-16-148410-0"}},
		{"isbn check letter", "ISBN 0-8044-2957-X", []string{"ISBN:0-8044-2957-X"}},
		{"isbn too short", "ISBN 12-3", nil},
		{"iso", "Certified ISO 9001:2015 plant", []string{"ISO:9001:2015"}},
		{"rfc", "as RFC 2616 says", []string{"RFC:2616"}},
		{"udc", "UDC 681.3.06 text", []string{"UDC:681.3.06"}},
		{"skype", "Skype: john.doe42", []string{"skype:john.doe42"}},
		{"icq", "ICQ: 123-456-789", []string{"ICQ:123456789"}},
		{"icq too long", "ICQ 123456789012", nil},
		{"cadastral keyword", "cadastral number 77:01:0004012:1234", []string{"cadastral:77:01:0004012:1234"}},
		{"cadastral bare", "plot 77:01:0004012:1234 sold", []string{"cadastral:77:01:0004012:1234"}},
		{"time is not cadastral", "at 10:30 sharp", nil},
		{"generic scheme", "open file:///etc/hosts", []string{"file:etc/hosts"}},
		{"site keyword", "website: shop.example", []string{"http://shop.example"}},
		{"unmatched close bracket", "see http://example.com/a(b)c) end", []string{"http://example.com/a(b)c"}},
		{"space before page extension", "http://example.com/page index.html", []string{"http://example.com/pageindex.html"}},
		{"space without extension", "http://example.com/page index now", []string{"http://example.com/page"}},
		{"ipv4 octet out of range", "256.1.1.1", nil},
		{"five octets", "1.2.3.4.5", nil},
		{"trailing dot trimmed", "a.b.c.d.e.f.g.com.", []string{"http://a.b.c.d.e.f.g.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uris(run(t, tt.text)))
		})
	}
}

func TestSiteKeywordAbsorbed(t *testing.T) {
	text := "web site: example.com"
	k := run(t, text)
	rs := k.Data.OfType(referent.TypeUri)
	require.Len(t, rs, 1)
	occ := rs[0].Occurrences()
	require.Len(t, occ, 1)
	assert.Equal(t, text, text[occ[0].Begin:occ[0].End])
}

func TestEmailKeywordAbsorbed(t *testing.T) {
	text := "e-mail: info@example.com"
	k := run(t, text)
	rs := k.Data.OfType(referent.TypeUri)
	require.Len(t, rs, 1)
	occ := rs[0].Occurrences()
	assert.Equal(t, text, text[occ[0].Begin:occ[0].End])
	scheme, _ := rs[0].StringValue(referent.SlotScheme)
	assert.Equal(t, "mailto", scheme)
}

func TestStandardDetail(t *testing.T) {
	k := run(t, "ISO 9001 (quality management) applies")
	rs := k.Data.OfType(referent.TypeUri)
	require.Len(t, rs, 1)
	assert.Equal(t, "ISO:9001 (quality management)", rs[0].String())
}

func TestRepeatedURLMerges(t *testing.T) {
	k := run(t, "example.com and again example.com")
	rs := k.Data.OfType(referent.TypeUri)
	require.Len(t, rs, 1)
	assert.Len(t, rs[0].Occurrences(), 2)
}
