// Package models defines the core domain models for Splitly.
//
// # Models
//
//   - Expense: a single recorded outlay with one payer and the shares owed
//     by the other participants
//   - Share: one participant's owed portion of an expense, with a
//     settlement status
//   - User: a registered account; participants and payers are user IDs
//
// # Design Principles
//
//  1. **Exact money**: all amounts are int64 cents (minimum currency
//     units). Floating point is never used for arithmetic, only for
//     display formatting at the edges.
//  2. **Avoid circular references**: Share carries the expense ID string
//     instead of a pointer back to its Expense.
//  3. **Payer holds no Share**: the payer's own portion of an expense is
//     implicit (amount minus the sum of attached shares).
package models
