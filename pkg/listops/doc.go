/*
Package listops implements the list-transformation engine behind listbot.

Every function in this package is pure: it takes raw multi-line text pasted by a user and
returns newly built text. Nothing is cached, nothing is shared and the input is never mutated,
so the functions are safe to call concurrently from any number of sessions.

# Line Format

A list line may carry decorative glyphs, a 5-digit identifier, an optional "(Nx)" quantity
annotation and free-form text, in any order:

	💎 Golden Dragon (4x) 12345

# Operations

  - Sort: first integer of every line, sorted ascending.
  - Filter: lines whose quantity annotation is greater than one.
  - Expand: every identifier repeated by its quantity.
  - Compare: lines of the first list whose identifier also appears in the second list.

Each operation has a tagged form returning a Result and a plain string form that keeps the
historical output conventions of the bot, including the sentinel-versus-empty asymmetry of
Expand (see Result.Display).
*/
package listops
