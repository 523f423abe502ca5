// Package refund provides domain entities recording money and quantities
// returned to the buyer. Refunds are built only by the refund calculator
// domain service, which derives discounted line amounts, caps shipping by
// what the order charged, and never refunds more than the net captured
// amount across the order's ledger.
package refund
