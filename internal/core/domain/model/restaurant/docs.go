// Package restaurant models the read-only catalogue the order engine depends on.
//
// The package includes:
//   - Restaurant: location, timezone and daily opening window
//   - OpeningHours: a [from, to) time-of-day window that may wrap past midnight
//   - Dish: a priced item sold by exactly one restaurant
//
// Restaurants and dishes are managed outside this service; the types here are
// restored from persistence and only answer questions (is it open, how far is it).
package restaurant
