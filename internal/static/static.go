package static

import _ "embed"

// APIMd contains the embedded api.md quickstart for integrators.
//
//go:embed api.md
var APIMd string
