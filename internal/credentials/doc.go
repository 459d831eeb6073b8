// Package credentials maps a ticket's project key to an archive password and
// document template.
//
// The policy is deliberate about its fallback: a ticket with no project
// association at all is a data-quality case and may use the process-wide
// default password, but an identified project that is missing from the
// password map must escalate instead of silently defaulting. The per-project
// password gates access per project, and a shared fallback would leak
// cross-project access.
package credentials
