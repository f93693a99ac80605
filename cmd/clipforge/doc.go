// Command clipforge is the developer-facing driver for the media pipeline:
// listing source media, deriving tags, generating videos, and managing the
// resulting catalog.
package main
