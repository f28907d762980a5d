/*
Package domain contains the core domain models of listbot.

It defines the closed set of modes a chat session can be in, the per-session record the
router owns, the replies handed to platform adapters and the lifecycle events emitted while
handling them. This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - Mode: the transformation a session applies to the next text it receives.
  - Session: the per-user record {mode, pending lists} persisted between messages.
  - Reply: a platform-neutral message (text, optional banner image, optional keyboard).
  - LifecycleHooks: observability callbacks for mode changes, transforms and delivery errors.
*/
package domain
