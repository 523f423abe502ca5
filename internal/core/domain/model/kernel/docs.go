// Package kernel provides core domain primitives shared by every aggregate
// in the order-management core. It implements fundamental building blocks
// following Domain-Driven Design principles.
//
// The package includes:
//   - ID / StoreID: value objects for per-tenant surrogate identifiers
//   - Money / Currency / CurrencyCatalogue: fixed-point monetary amounts
//   - DomainEvent / BaseEvent: immutable facts buffered during state changes
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are immutable and
// thread-safe, making them suitable for concurrent use.
//
// Every aggregate is identified by (StoreID, ID); the StoreID partitions all
// data per tenant, and crossing tenants is treated as a programming error.
package kernel
