// Package preflight verifies the runtime environment before a generation
// run: directory access, free disk space, and the external binaries the
// renderer shells out to.
package preflight
