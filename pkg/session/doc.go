/*
Package session implements session management and persistence orchestration.

It serializes access to each user's session record, integrating local refcounted locks with
optional distributed locking and the configured storage adapter. Two messages from the same
chat never interleave their read-modify-write cycles, while different chats proceed in parallel.
*/
package session
