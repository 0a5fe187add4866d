// Package session owns the set of open tabs and the designation of exactly
// one of them as active.
//
// # Invariants
//
//   - The active ID, when set, always keys a live session.
//   - Once the shell has started, the registry is never empty: closing the
//     last tab synchronously opens a blank replacement.
//   - Exactly one session is active whenever the registry is non-empty.
//
// Activation only ever changes through Registry.Activate. Observers
// registered with OnActivate run inside that call, which is how the UI
// learns about tab switches.
//
// Session IDs come from a counter that is never rewound, so an ID is never
// reused even after its session is closed. Late events for a closed session
// are reported as ErrSessionNotFound and are expected to be ignored.
package session
