// Package cli provides the interactive letterpress newsletter editor.
//
// It wires configuration, local storage, API services and an interactive
// REPL. Typical flow: restore the saved session, open the default template,
// then execute user commands until exit.
//
// Key features:
//   - Login / Logout
//   - Open a version (cache first, then the API), blank or default template
//   - Select text and rewrite it in a tone, with the result spliced back
//   - Generate images into components
//   - Save, list, version history, delete, duplicate, restore
//   - Markdown preview and client counters
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Every command error is reported as a single line; auth failures sign the
// user out and ask them to sign in again.
package cli
