// Package event provides the canonical event record shared by all pipeline
// stages, plus the pure normalization and merge primitives the extraction
// layers are built on.
//
// Each record is identified by its canonical URL. Records without a URL fall
// back to a deterministic SHA1-based identity derived from title and
// description, enabling reliable tracking across runs.
package event
