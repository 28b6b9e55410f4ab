// Package events provides event bus implementations for connector messages.
//
// Implementations:
//   - redis: Redis Streams, every subscriber reads the full stream
//   - memory: In-memory fan-out for single-process deployments and tests
package events
