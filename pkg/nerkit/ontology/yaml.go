package ontology

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Feed is the on-disk YAML layout of an ontology feed.
type Feed struct {
	Records []Record `yaml:"records"`
}

// ParseYAML decodes a feed document.
func ParseYAML(r io.Reader) ([]Record, error) {
	var feed Feed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&feed); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode ontology feed: %w", err)
	}
	return feed.Records, nil
}

// LoadYAML reads a feed file.
func LoadYAML(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology feed: %w", err)
	}
	defer f.Close()
	return ParseYAML(f)
}

// FileSource reads records from a YAML feed file on every call.
type FileSource struct {
	Path string
}

// Records implements Source.
func (s FileSource) Records(ctx context.Context) ([]Record, error) {
	return LoadYAML(s.Path)
}
