// Package siteaudit provides a CLI-based site auditor. It crawls a list of
// domains for broken links, re-checks links whose status could not be
// determined, measures page performance with Lighthouse and writes a single
// tabular report for the whole run.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, lighthouse/, sqlite/).
package siteaudit
