/*
Package observability provides Prometheus collectors for the markdown engine.

Metrics records render outcomes and durations per flavour and the hit rate of
the render cache. A nil *Metrics is valid and records nothing, so callers never
need to guard their instrumentation.
*/
package observability
