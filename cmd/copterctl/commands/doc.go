// Package commands defines the copterctl CLI for operating a Copter ledger.
//
// Commands
//
//   - migrate       Apply pending migrations and print the schema version
//   - remind        Run the reminder sweep once
//   - cleanup       Run the attachment cleanup sweep once
//   - token         Mint an actor token for local testing
//   - hash-key      Print the bcrypt hash to configure for an integration key
//   - gen-seal-key  Print a fresh payment seal key
//
// The root command loads configuration from the environment (and .env)
// before any subcommand runs. Commands that touch the ledger open it
// through the same wiring as the server.
package commands
