// Package cookies provides cookie jar implementations used as the
// preference store of the simulator.
//
// Implementations:
//   - browser: cookies of the current HTTP request and response
//   - redis: per-session hash with a sliding TTL
package cookies
