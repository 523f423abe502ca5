// Package services provides stateless domain services coordinating logic
// that spans aggregates or needs collaborator data the aggregates must not
// depend on.
//
// The package includes:
//   - TaxCalculator: rate resolution and included/excluded tax arithmetic
//   - FulfillmentOrderRouter: proposes location assignments for order lines
//   - EditCommitter: resolves a staged edit session, all-or-nothing
//   - RefundCalculator: derives refund lines, amounts, and ledger
//     transactions
//
// Services take aggregates and plain snapshots as input and never reach out
// to adapters themselves; the application layer gathers collaborator data
// through ports and hands it in.
package services
