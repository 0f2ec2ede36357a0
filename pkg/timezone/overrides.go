package timezone

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads extra display triples keyed by identifier:
//
//	America/Toronto:
//	  region: America
//	  country: Canada
//	  city: Toronto
func LoadOverrides(r io.Reader) (map[string]Place, error) {
	var table map[string]Place
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Place{}, nil
		}
		return nil, fmt.Errorf("decoding overrides: %w", err)
	}
	for id, p := range table {
		if strings.TrimSpace(id) == "" {
			return nil, errors.New("override with empty id")
		}
		if p.Region == "" || p.Country == "" || p.City == "" {
			return nil, fmt.Errorf("override %q: region, country and city are required", id)
		}
		if strings.ContainsAny(p.Region+p.Country+p.City, "/()") {
			return nil, fmt.Errorf("override %q: fields may not contain '/', '(' or ')'", id)
		}
	}
	if table == nil {
		table = map[string]Place{}
	}
	return table, nil
}
