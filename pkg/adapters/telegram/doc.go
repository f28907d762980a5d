/*
Package telegram connects the router to the Telegram Bot API through long polling.

Updates are handled one at a time in the order Telegram delivers them. Each reply becomes a
sendMessage call, or a sendPhoto call when it names a banner that exists in the asset
directory. A banner that cannot be sent is replaced by a short warning followed by the
text, so the user always gets the result.
*/
package telegram
