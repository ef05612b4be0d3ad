// Package templates embeds the transactional email bodies so the binary is
// self-contained regardless of working directory.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
