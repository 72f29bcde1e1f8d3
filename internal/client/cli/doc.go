// Package cli provides the interactive quote wizard.
//
// It wires configuration, the local draft database, the quote backend and a
// REPL that walks the user through the three wizard steps (client, job and
// items, review). The wizard autosaves a draft on a timer; if an earlier
// session left one behind, the REPL opens with a recovery banner and waits
// for 'accept' or 'discard' before allowing edits.
//
// Key commands:
//   - client / job / settings   edit the fields of a step
//   - additem / qty / price / rmitem / items   manage line items
//   - next / back / goto        move between steps
//   - save                      write a draft now
//   - submit                    store the quote in the backend
//   - drafts                    list stored drafts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// the process is interrupted.
package cli
