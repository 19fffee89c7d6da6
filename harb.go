// ABOUTME: Root package providing version information and package documentation
// ABOUTME: This is the root package for the Ruby heap-dump analysis console

// Package harb provides an interactive analysis console for Ruby
// ObjectSpace heap dumps. It builds an immutable object graph from a
// JSON-lines dump and answers dominance, root-path, summary and
// snapshot-diff queries against it.
package harb

// Version is the semantic version of the harb tool
const Version = "0.1.0-dev"
