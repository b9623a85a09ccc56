// Package kernel holds the value objects shared by every aggregate:
//   - UUID: identifier wrapper over github.com/google/uuid
//   - Location: validated WGS84 point with great-circle Distance in meters
//
// Both are immutable and safe for concurrent use.
package kernel
