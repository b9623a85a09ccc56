// Package courier models the delivery side of the marketplace.
//
// The package includes:
//   - Account: a user's courier profile; orders reference it once claimed
//   - LocationPing: one reported position of a courier, append-only
//
// A courier's live position is its most recent LocationPing.
package courier
