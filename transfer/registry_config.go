package transfer

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dexshrink/reflectflow/ir"
)

//go:embed apitypes.yaml
var defaultRegistryYAML []byte

// DefaultRegistry parses the registry shipped with this repository
// (apitypes.yaml), the canonical java.lang/java.lang.reflect target
// (SPEC_FULL.md §3.6). Decoding a compile-time-embedded document can't
// fail at runtime for reasons outside this repository's control, but the
// loader still returns an error rather than panicking, for symmetry with
// LoadRegistryFile and because YAML decode errors are an ordinary,
// expected-at-runtime failure mode (spec.md §7), not a structural
// invariant violation.
func DefaultRegistry() (ir.Registry, error) {
	return parseRegistry(defaultRegistryYAML)
}

// LoadRegistryFile reads and parses a reflection-API type registry from a
// YAML file, for cmd/reflectflow's -config flag.
func LoadRegistryFile(path string) (ir.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Registry{}, fmt.Errorf("transfer: reading registry config %s: %w", path, err)
	}
	return parseRegistry(data)
}

func parseRegistry(data []byte) (ir.Registry, error) {
	var reg ir.Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return ir.Registry{}, fmt.Errorf("transfer: parsing registry config: %w", err)
	}
	return reg, nil
}
