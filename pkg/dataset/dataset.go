package dataset

import (
	_ "embed"
	"slices"

	"github.com/limaJavier/sectiontable/pkg/model"
)

//go:embed default.yaml
var defaultInput []byte

// Default returns the built-in 19-section curriculum
func Default() (model.ModelInput, error) {
	return model.InputFromBytes(defaultInput, "yaml")
}

// Raw returns a copy of the embedded YAML document
func Raw() []byte {
	return slices.Clone(defaultInput)
}
