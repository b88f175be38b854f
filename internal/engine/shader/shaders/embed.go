// Package shaders provides the embedded default GLSL sources, one
// <mode>.vert / <mode>.frag pair per shading mode.
package shaders

import "embed"

// FS holds the default shader sources.
//
//go:embed *.vert *.frag
var FS embed.FS
