// Package catalog holds the project details shown in the portfolio modal.
//
// The catalog is plain data injected into the modal. It can be built in
// code, read from a YAML file or fetched from an S3 object.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/sitekit/internal/errors"
)

// Project is the detail of one portfolio entry.
type Project struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Catalog maps a project key (the data-project attribute) to its details.
type Catalog map[string]Project

// Lookup returns the project for key.
func (c Catalog) Lookup(key string) (Project, bool) {
	p, ok := c[key]
	return p, ok
}

// Keys returns the project keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every entry has a key and a title.
func (c Catalog) Validate() error {
	for _, k := range c.Keys() {
		if strings.TrimSpace(k) == "" {
			return errors.New("E201").WithDetail("project key must not be empty")
		}
		if strings.TrimSpace(c[k].Title) == "" {
			return errors.New("E201").WithDetail(fmt.Sprintf("project %q has no title", k))
		}
	}
	return nil
}

// Default returns the stock portfolio entries.
func Default() Catalog {
	return Catalog{
		"techvision": {Title: "TechVision Platform", Description: "Digital transformation project"},
		"retailpro":  {Title: "RetailPro System", Description: "E-commerce solution"},
		"brandboost": {Title: "BrandBoost Campaign", Description: "Marketing strategy"},
		"finserve":   {Title: "FinServe Platform", Description: "Financial consulting"},
		"healthcare": {Title: "Healthcare Innovation", Description: "Digital health solution"},
		"cloudsoft":  {Title: "CloudSoft Migration", Description: "Cloud infrastructure"},
	}
}

// Source loads a catalog.
type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// Static is a Source returning a fixed catalog.
type Static Catalog

// Load implements Source.
func (s Static) Load(context.Context) (Catalog, error) {
	return Catalog(s), nil
}

// Decode parses a YAML (or JSON) catalog document.
func Decode(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.New("E201").Wrap(err)
	}
	if c == nil {
		c = Catalog{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
