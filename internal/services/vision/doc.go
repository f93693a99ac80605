// Package vision adapts an external classifier command to the analysis
// package's Classifier contract. The classifier is a pluggable capability;
// without one configured, the Noop implementation keeps the pipeline running
// with degraded (scene/trending only) tagging.
package vision
