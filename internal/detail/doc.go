// Package detail implements Stage B field extraction: turning a detail
// page's HTML into a canonical event record.
//
// Each source has its own parser, but all of them produce patches through
// the same layered fusion: structured markup first, meta tags second,
// visible-DOM selectors last, merged with fill-empty semantics so a less
// reliable layer can never clobber a more reliable one.
package detail
