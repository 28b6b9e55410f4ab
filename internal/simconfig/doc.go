// Package simconfig provides the constants and cookie-backed defaults the
// Web Data Connector simulator starts from.
//
// Static tables (event names, phases, sample connector URLs, connector
// attribute defaults and graph styling) are exposed as typed values. The
// per-user defaults are computed by Load from an injected CookieStore:
//
//	defaults := simconfig.Load(ctx, store)
//	state := defaults.State()
//	fmt.Println(state.WdcURL, state.CurrentPhase)
//
// Load never fails. Missing or malformed cookies fall back to the static
// defaults.
package simconfig
