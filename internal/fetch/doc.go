// Package fetch provides the two fetch tiers used by the pipeline and the
// escalation policy that combines them with the HTML cache.
//
// The lightweight tier is a plain HTTP client with bounded retries and a
// randomized politeness delay. The rendered tier drives a headless browser
// through the Renderer interface, reserved for JS-hydrated pages whose
// lightweight response carries too little visible text.
package fetch
