// Package catalog persists generated-video records in SQLite, keeping the
// stored catalog consistent with the files actually on disk: records are
// reconciled against the filesystem at open and files are removed alongside
// their records on delete.
package catalog
