// Package zone contains the delivery zone aggregate. A zone is a
// merchant-owned geographic area, shaped as either a polygon ring or a circle,
// bound to the dispatch rule that governs orders delivered inside it.
//
// The Shape type is a tagged variant: containment and persistence logic switch
// exhaustively on its kind rather than relying on polymorphic dispatch, so a
// new shape kind cannot be added without revisiting every consumer.
package zone
