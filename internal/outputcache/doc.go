// Package outputcache holds the output values produced during one evaluation
// pass.
//
// # Purpose
//
// The evaluator creates a fresh Cache for every pass and discards it when
// the pass ends. Each entry maps an output port to the value its node
// produced. Because a node writes all of its outputs at once, a hit on any
// output means the node has already been computed in this pass.
//
// # Characteristics
//
//   - **Ephemeral:** never shared between passes, so edits made between
//     passes can never be served from a stale entry
//   - **Write-Once:** an output is computed at most once per pass; a second
//     write fails with ErrAlreadySet
//   - **Single Owner:** a pass runs on one goroutine, so the cache carries no
//     locking of its own
package outputcache
