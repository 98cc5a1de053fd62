// Package flows contains pure-function orchestrators for every Client operation
// that touches the session store.
//
// Each flow function (RunResolve, RunLogout, RunLogin, RunGate, RunPostWrite)
// accepts a typed dependency struct and returns results without side-effects
// beyond those dependencies. This keeps the Client type thin and lets every
// decision of the session resolver be tested with fake stores and fetchers.
//
// # Architecture boundaries
//
// Flow functions coordinate the token store, the claims decoder and the
// remote profile/login calls. They do NOT own any of these resources;
// ownership stays with the Client. Audit and metrics are recorded by the
// Client from the returned result.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goBlog (to avoid import cycles).
//   - Perform HTTP directly. All I/O is mediated through dependency funcs.
package flows
