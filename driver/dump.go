package driver

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/JustAPerson/denuocc-sub000/front"
	"github.com/JustAPerson/denuocc-sub000/internal/json"
)

// DumpFormat selects the encoding of a debug state dump.
type DumpFormat int

const (
	DumpJSON DumpFormat = iota
	DumpYAML
)

// DumpFormatFor picks the format from the file extension of path. Anything
// other than .yaml or .yml is JSON.
func DumpFormatFor(path string) DumpFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DumpYAML
	}
	return DumpJSON
}

// DumpState encodes every field of s, token origins included.
func DumpState(s *front.State, format DumpFormat) ([]byte, error) {
	if format == DumpYAML {
		data, err := yaml.Marshal(s)
		return data, errors.WithStack(err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append(data, '\n'), nil
}
