// Package assets embeds the default demo definitions and their shaders.
package assets

import (
	"embed"
)

// ConfigName is the name of the demo file within FS.
const ConfigName = "demos.yaml"

//go:embed demos.yaml shaders
var FS embed.FS
