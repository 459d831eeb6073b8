// Package vsplit wraps the external visual secret-sharing tool. The tool is
// executed inside the ticket's working directory with the rendered secret
// image's filename as its argument and must leave two fixed-named share
// images (Password_A.png, Password_B.png) behind; either share alone reveals
// nothing about the secret. The splitting mathematics are opaque to passpack.
package vsplit
