// Package secrets produces one-time archive secrets and rasterizes them for
// the visual secret-sharing step: a crypto/rand generator over a broad
// printable charset, and a renderer that centers the secret on a fixed-size
// monochrome canvas with auto-fitted font size.
package secrets
