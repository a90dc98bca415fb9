// Package web holds the page templates and static files served by
// internal/http.
package web

import "embed"

// TemplatesFS holds index.html and the partials it includes.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the small script that shows
// notifications.
//
//go:embed static/*
var StaticFS embed.FS
