package appfs

import "embed"

// FS holds the postgres migrations, the static assets and the page template.
//
//go:embed migrations static templates
var FS embed.FS
