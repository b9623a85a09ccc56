// Package events defines the realtime events an order produces and the channels they are
// published on.
//
// Channels:
//   - order_<id>: status changes and courier locations of one order, for its owner
//   - courier_queue: new free orders and claimed orders, for every connected courier
//
// Every event is sent to websocket clients as {"type": ..., "content": ...}.
package events
