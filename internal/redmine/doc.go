// Package redmine implements the narrow tracker contract the pipeline
// consumes: list new tickets assigned to the current user, upload an
// attachment, update an issue, and create an issue. Field rejections from
// the tracker surface as a typed ValidationError so callers can distinguish
// them from transport failures.
package redmine
