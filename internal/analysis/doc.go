// Package analysis turns raw pixels into a deduplicated, sorted tag set.
//
// The analyzer walks the selected media sequentially, running three
// independent sub-analyses per item (face presence, object classification
// through an ordered canonical vocabulary, scene keyword matching) and
// swallowing per-item failures. A pure trending-topic sampler supplements the
// detected tags.
package analysis
