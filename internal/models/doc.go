// Package models defines the ledger entities for Copter.
//
// # Entities
//
//   - Bill: one shared expense with a fixed total, a creator and a status
//   - BillItem: a line item of an item-split bill
//   - Participant: a user's share of a bill and its payment status
//   - ItemSelection: the join between participants and the items they took
//   - PaymentMethod: how a creator wants to be paid back
//   - BillFile: an attachment tracked so stale files can be swept
//
// # Money
//
// Every amount is an Amount (a shopspring decimal) kept at two decimal
// places, the minor unit used for truncation and remainder distribution.
// Floats never reach the ledger.
//
// # Relationships
//
// Entities reference each other by ID strings, never by pointer. A Snapshot
// bundles a bill with its dependents for renderers.
package models
