// Package resource implements the simulated cloud resource registry.
//
// A Resource is one of a closed set of kinds (Compute, Storage, Network).
// Each kind knows how to refresh its own usage metrics from a
// sampler.Source. The Registry keeps resources in insertion order, enforces
// unique names and offers the bulk start/stop operations the poller and the
// cloudsim binary drive.
//
// All Registry and Resource methods are safe for concurrent use.
package resource
