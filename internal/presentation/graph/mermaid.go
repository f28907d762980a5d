package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
)

const (
	menuNode    = "menu"
	pendingNode = "compare_pending"
)

// Overlay contains session data to visualize on the diagram.
type Overlay struct {
	Mode    domain.Mode
	Pending int
}

// GenerateMermaid produces a Mermaid flowchart of the router modes and the
// commands and buttons that move a session between them.
// Shapes:
// - Menu (no mode): ((Circle))
// - Compare waiting for its second list: [/Parallelogram/]
// - Modes: [Rectangle]
// The overlay, when given, highlights where a session currently is.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"menu\"))\n", menuNode)

	for _, m := range domain.Modes {
		id := string(m)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, m)

		triggers := []string{m.Callback()}
		for _, c := range bot.CommandsFor(m) {
			triggers = append(triggers, "/"+c)
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", menuNode, strings.Join(triggers, " | "), id)
		fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, domain.CallbackMainMenu, menuNode)

		if m == domain.ModeCompare {
			fmt.Fprintf(&sb, "    %s[/\"list 1 received\"/]\n", pendingNode)
			fmt.Fprintf(&sb, "    %s -- \"first list\" --> %s\n", id, pendingNode)
			fmt.Fprintf(&sb, "    %s -- \"second list\" --> %s\n", pendingNode, id)
			fmt.Fprintf(&sb, "    %s -- \"/cancel\" --> %s\n", pendingNode, id)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", currentNode(overlay))
	}

	return sb.String()
}

func currentNode(o *Overlay) string {
	switch {
	case o.Mode == domain.ModeNone:
		return menuNode
	case o.Mode == domain.ModeCompare && o.Pending > 0:
		return pendingNode
	}
	return string(o.Mode)
}
