// Package cli provides the interactive payrun command-line client.
//
// The REPL talks to the server through client.Client and renders backlog,
// board, registry and ledger views as tables. Commands take their arguments
// on the same line, e.g. "settle <slot-id>" or "move 3 0".
//
// delperson asks the user to retype the id before anything is deleted, and
// refuses outright when stdin is not a terminal unless --force is given.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
