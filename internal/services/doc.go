// Package services provides shared error classification and context plumbing
// for the generation pipeline. Sentinel errors distinguish fatal failures
// (composition, export, configuration) from degradable ones; context helpers
// carry request correlation data into structured logs.
package services
