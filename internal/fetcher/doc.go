// Package fetcher retrieves page variants under simulated client identities.
//
// A client identity is the User-Agent string used to fetch one variant of
// the target page. The fetcher guarantees at most one network fetch per
// distinct identity: browser/device combinations that resolve to the same
// identity share a single fetched variant.
//
// Transport failures (timeout, DNS, connection reset) degrade to an
// empty-markup variant for that one identity rather than aborting the run;
// non-2xx responses are not failures since the body still carries signals.
package fetcher
