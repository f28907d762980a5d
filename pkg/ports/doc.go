/*
Package ports defines the driven ports (interfaces) for listbot.

These interfaces decouple the router from external implementations, allowing the same
session logic to run against several storage backends and replicas.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading per-user Session records.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
