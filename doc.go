/*
Package listbot is a chat bot that turns pasted item lists into derived results.

A user picks a mode and pastes text. Lines carry a 5-digit identifier, an optional "(Nx)"
quantity and decorative markers. The bot answers with one of:

  - sort: the first number of every line, sorted ascending.
  - filter: only the lines with more than one unit.
  - expand: every identifier repeated by its quantity.
  - compare: the lines of a first list whose identifier also appears in a second list.

# Architecture

The transformation engine (pkg/listops) is pure text in, text out. The router (pkg/bot)
owns the per-user session: current mode and the lists a comparison is waiting on. Sessions
are persisted through a ports.SessionStore (memory, file or redis) under a per-session lock.
Adapters expose the router over Telegram, HTTP, MCP and a console.

# Usage

	app, err := listbot.New(listbot.WithLimits(bot.Limits{MaxExpandedTokens: 10000}))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	replies, err := app.Router().HandleCommand(ctx, "user-1", "/sort")
	replies, err = app.Router().HandleText(ctx, "user-1", "💎 Sword 30\n💎 Bow 4")
	// replies[0].Text == "4 30"
*/
package listbot
