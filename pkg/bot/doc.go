/*
Package bot implements the session and command router of listbot.

The router turns platform events (commands, button callbacks, free text) into calls to the
list-transformation engine and renders the results as platform-neutral domain.Reply values.
It owns the per-user domain.Session record: the current mode and, in compare mode, the list
texts received so far.

The core is Dispatch, a total function over the closed mode set that takes a session and a
text and returns the next session and the replies. Router wraps it with persistence, per-session
locking, input sanitization and lifecycle hooks. Platform adapters (Telegram, HTTP, console)
only translate their events into Router calls and deliver the replies.
*/
package bot
