package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/opmodel/resengine/internal/bundle"
	rerrors "github.com/opmodel/resengine/internal/errors"
)

// readBundle reads and decodes a bundle file, trying YAML first when the
// path's extension says so and falling back to JSON otherwise; YAML
// decodes plain JSON too, so this covers every format build can write
// except the split "dir" layout, which vet and resolve don't support
// reading back (there's no single file to point them at).
func readBundle(path string) (*bundle.Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", path, err.Error())
	}

	var b bundle.Bundle
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(raw, &b)
	} else {
		err = json.Unmarshal(raw, &b)
	}
	if err != nil {
		return nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", path, err.Error())
	}
	return &b, nil
}
