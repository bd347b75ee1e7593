// Package web holds the embedded page templates and static assets of the
// tracker UI.
package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the HX-Trigger glue script.
//
//go:embed static/*
var StaticFS embed.FS
