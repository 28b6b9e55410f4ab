// Package relay tracks simulator sessions and relays the tagged messages
// exchanged between the simulator UI and an embedded connector page.
//
// The manager:
//   - Opens sessions seeded with the cookie-derived simulator defaults
//   - Validates messages against the event and phase registries
//   - Publishes accepted messages to the event bus
//   - Closes sessions on request or after they sit idle
//
// It does not interpret the connector lifecycle; phase transitions stay with
// the simulator UI.
package relay
