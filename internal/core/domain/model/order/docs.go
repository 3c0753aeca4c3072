// Package order provides domain entities and business logic for delivery order
// management. It implements the Order aggregate root with lifecycle management
// and state transitions.
//
// The package includes:
//   - Order: The aggregate root holding identity, immutable facts, route and
//     live tracking state
//   - Status: A state machine enforcing Pending -> Shipping -> Arrived ->
//     Delivered, with Cancelled reachable from any non-final state
//   - AnomalyReason: A tagged value explaining why an order was flagged as
//     abnormal by the periodic sweep
//
// Key business rules:
//   - Orders must have valid identifiers, a recipient coordinate and a positive amount
//   - A route and dispatch rule may only be attached while the order is Pending
//   - Delivery confirmation requires Arrived status and the ordering user
//   - The abnormal flag is monotonic: once set it is never re-evaluated here
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
