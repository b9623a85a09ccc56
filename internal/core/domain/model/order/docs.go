// Package order implements the Order aggregate: a user's cart that becomes a
// placed order, is claimed by a courier and ends delivered or cancelled.
//
// The package includes:
//   - Order: the aggregate root with line items and the status ledger
//   - Line: a dish with its quantity
//   - Status and StatusEntry: lifecycle codes and ledger rows
//
// Key business rules:
//   - Status flows Open -> Preparing -> Delivering -> Cancelled | Delivered
//   - Line items change only while the order is Open and come from one restaurant
//   - Submission requires a nearby, open restaurant and fixes the summary
//   - Only the assigned courier or a superuser can finish an order
package order
