// Package dashboard embeds the web UI served at "/".
//
// The page loads the current panels from /api/panels, then keeps them fresh
// from the /api/sse stream. The server substitutes {{.Title}} before
// serving it.
package dashboard

import "embed"

// Assets holds assets/index.html, a single page with inline CSS and script.
//
//go:embed assets/*
var Assets embed.FS
