// Package ui holds the server-rendered widget page.
package ui

import "embed"

//go:embed templates
var Templates embed.FS
