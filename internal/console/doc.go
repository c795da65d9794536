// Package console keeps an operator's view of a remote resource API in sync.
//
// Four parts cooperate, each owning its own state:
//
//   - the kind registry (package models) describes endpoints and fields,
//   - Controller owns the collection of the active kind and runs the
//     fetch/create/update/delete cycles against the remote API,
//   - Form owns the single edit session and its draft,
//   - Notifier owns the one live notification and its dismissal timer.
//
// Console wires them together and produces snapshots for rendering.
package console
