package catalog

import (
	"context"
	"os"

	"github.com/vango-dev/sitekit/internal/errors"
)

// FileSource reads a catalog from a YAML file.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load(context.Context) (Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.New("E200").
			WithDetail("could not read " + f.Path).
			Wrap(err)
	}
	return Decode(data)
}
