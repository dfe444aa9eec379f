// Package appfs embeds non-Go assets shipped inside the binary.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
