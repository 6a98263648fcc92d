package config

import (
	"context"
	"fmt"

	"github.com/cognicore/nerkit/pkg/nerkit"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
	"github.com/cognicore/nerkit/pkg/nerkit/measure"
	"github.com/cognicore/nerkit/pkg/nerkit/named"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology/sqlite"
	"github.com/cognicore/nerkit/pkg/nerkit/uri"
)

// Loader loads all table files and constructs components
type Loader struct {
	UnitsPath    string
	TermsPath    string
	DomainsPath  string
	SchemesPath  string
	OntologyPath string
	OntologyDB   string
}

// Components holds all loaded tables
type Components struct {
	Units    *measure.Table
	Terms    *named.Terms
	Domains  *uri.Domains
	Schemes  *uri.Schemes
	Ontology *ontology.Ontology
}

// Load reads every configured file. Unset paths fall back to the embedded
// tables; unset ontology sources leave the ontology empty.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	comp := &Components{}
	var err error

	// Load units
	if l.UnitsPath != "" {
		comp.Units, err = measure.LoadTable(l.UnitsPath)
	} else {
		comp.Units, err = measure.DefaultTable()
	}
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	// Load terms
	if l.TermsPath != "" {
		comp.Terms, err = named.LoadTerms(l.TermsPath)
	} else {
		comp.Terms, err = named.DefaultTerms()
	}
	if err != nil {
		return nil, fmt.Errorf("load terms: %w", err)
	}

	// Load domains and schemes
	if l.DomainsPath != "" {
		comp.Domains, err = uri.LoadDomains(l.DomainsPath)
	} else {
		comp.Domains, err = uri.DefaultDomains()
	}
	if err != nil {
		return nil, fmt.Errorf("load domains: %w", err)
	}
	if l.SchemesPath != "" {
		comp.Schemes, err = uri.LoadSchemes(l.SchemesPath)
	} else {
		comp.Schemes, err = uri.DefaultSchemes()
	}
	if err != nil {
		return nil, fmt.Errorf("load schemes: %w", err)
	}

	// Load ontology; the YAML feed comes first, then the database
	var sources []ontology.Source
	if l.OntologyPath != "" {
		sources = append(sources, ontology.FileSource{Path: l.OntologyPath})
	}
	if l.OntologyDB != "" {
		db, err := sqlite.Open(ctx, l.OntologyDB)
		if err != nil {
			return nil, fmt.Errorf("open ontology db: %w", err)
		}
		defer db.Close()
		sources = append(sources, db)
	}
	comp.Ontology, err = ontology.Build(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}

	return comp, nil
}

// EngineOptions wires the components into engine options.
func (c *Components) EngineOptions(logger logging.Logger) nerkit.Options {
	return nerkit.Options{
		Ontology: c.Ontology,
		Units:    c.Units,
		Terms:    c.Terms,
		Domains:  c.Domains,
		Schemes:  c.Schemes,
		Logger:   logger,
	}
}
