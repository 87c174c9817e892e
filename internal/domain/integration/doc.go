// Package integration contains the platform integration bounded context.
// This context manages synchronization of orders and products with the
// Shopify Admin API.
//
// Key concepts:
//   - OrderClient / ProductClient: Port interfaces over the platform, with
//     one implementation per transport driver (REST, GraphQL)
//   - OrderImport / ProductImport: Validated inbound payloads produced by
//     the application-layer mappers
//   - SyncQueue: Port for the dispatch pipeline carrying sync messages
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
