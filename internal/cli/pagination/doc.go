// Package pagination slices list output for the CLI. Both offset-based
// (--limit/--offset) and page-based (--page/--page-size) modes are
// supported; they are mutually exclusive.
package pagination
