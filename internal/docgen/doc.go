// Package docgen wraps the external document embedder. The tool takes a
// document template and a share image and renders the final per-ticket
// document with the image placed at the template's fixed layout position.
// Markup generation is entirely the tool's concern.
package docgen
