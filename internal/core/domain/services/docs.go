// Package services holds domain services: rules that need more than one aggregate.
//
// The package includes:
//   - OrderDispatcher: decides whether a courier may claim a free order and assigns it
package services
