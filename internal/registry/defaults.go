package registry

import _ "embed"

// Embedded default configuration so the CLI works with zero setup. Explicit
// paths in config.yaml override these.

//go:embed defaults/kpi_definitions.yaml
var defaultDefinitions []byte

//go:embed defaults/pillar_weights.yaml
var defaultWeights []byte
