// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the dispatch system. It implements business
// workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - ZoneMatcher: A domain service resolving which delivery zone, and therefore
//     which dispatch rule, covers a recipient coordinate
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
