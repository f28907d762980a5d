package bot

import "github.com/aretw0/listbot/pkg/domain"

// Banner assets referenced by replies. Adapters resolve them against their asset directory.
const (
	BannerMenu    = "menu_banner.jpg"
	BannerSort    = "banner_sort.jpg"
	BannerCompare = "banner_compare.jpg"
	BannerFilter  = "banner_filter.jpg"
	BannerExpand  = "banner_expand.jpg"
)

const (
	msgChooseOption   = "Choose what you want to do:"
	msgMenu           = "Options menu:"
	msgNoMode         = "Please use /start or /menu to choose an option."
	msgFirstList      = "✅ List 1 received. Now send the second list."
	msgSwitchPrompt   = "🔽 When you want to switch:"
	msgSwitchSuffix   = "\n\n🔽 When you want to switch, tap below:"
	msgCancelled      = "🗑️ Pending lists discarded. Send the first list again."
	msgNothingPending = "Nothing to discard."
	msgUnknownCommand = "⚠️ Unknown command. Try /start again."
	msgUnknownButton  = "⚠️ Unknown option. Try /start again."
	msgInvalidInput   = "⚠️ Could not read that message: %v"
	msgTooManyTokens  = "⚠️ That list expands to %d IDs, more than the limit of %d. Split it and try again."
)

// HelpText lists the commands understood by the router. It is Markdown so terminal
// adapters can render it.
const HelpText = `# listbot

Paste a list and get a derived result back.

- **/sort** (or /ordenar): sort the first number of every line
- **/compare** (or /comparar): send two lists, get the lines of the first list whose ID is in both
- **/filter** (or /remover): keep only lines with more than one unit, like ` + "`(3x)`" + `
- **/expand**: repeat every 5-digit ID by its quantity
- **/cancel**: discard a half-finished comparison
- **/menu**: show the menu again
`

type modeInfo struct {
	label   string
	banner  string
	caption string
}

var modeInfos = map[domain.Mode]modeInfo{
	domain.ModeSort: {
		label:   "💎 Sort Numbers",
		banner:  BannerSort,
		caption: "Mode set: 💎 Sort Numbers.\nSend the list with 💎.",
	},
	domain.ModeCompare: {
		label:   "📋 Compare Lists",
		banner:  BannerCompare,
		caption: "Mode set: 📋 Compare Lists.\nSend two lists in separate messages.",
	},
	domain.ModeFilter: {
		label:   "🗑️ Remove 1x",
		banner:  BannerFilter,
		caption: "Mode set: 🗑️ Remove 1x.\nSend the cards to filter.",
	},
	domain.ModeExpand: {
		label:   "✅ Expand IDs",
		banner:  BannerExpand,
		caption: "Mode set: ✅ Expand.\nSend the list with quantities.",
	},
}

// MainMenu is the keyboard offering every mode.
func MainMenu() domain.Keyboard {
	button := func(m domain.Mode) domain.Button {
		return domain.Button{Text: modeInfos[m].label, Data: m.Callback()}
	}
	return domain.Keyboard{
		{button(domain.ModeSort), button(domain.ModeCompare)},
		{button(domain.ModeFilter), button(domain.ModeExpand)},
	}
}

// BackToMenu is the keyboard attached after every result.
func BackToMenu() domain.Keyboard {
	return domain.Keyboard{
		{{Text: "🔙 Back to menu", Data: domain.CallbackMainMenu}},
	}
}

func menuReply(caption string) domain.Reply {
	return domain.Reply{Text: caption, Banner: BannerMenu, Keyboard: MainMenu()}
}

func modeReply(m domain.Mode) domain.Reply {
	info := modeInfos[m]
	return domain.Reply{Text: info.caption + msgSwitchSuffix, Banner: info.banner, Keyboard: BackToMenu()}
}

func switchPrompt() domain.Reply {
	return domain.Reply{Text: msgSwitchPrompt, Keyboard: BackToMenu()}
}
