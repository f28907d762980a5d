/*
Package observability turns router lifecycle events into Prometheus metrics and structured logs.

Hooks from several sources can be merged with Combine and handed to bot.WithLifecycleHooks.
*/
package observability
