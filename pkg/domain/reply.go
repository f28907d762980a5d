package domain

// Button is an inline keyboard button that sends Data back as a callback.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Keyboard is a grid of buttons, row by row.
type Keyboard [][]Button

// Reply is a platform-neutral message produced by the router.
// Adapters decide how to render it (plain message, photo with caption, JSON).
type Reply struct {
	// Text is the message body, or the caption when Banner is set.
	Text string `json:"text"`

	// Banner names an image asset to send with the text. Optional.
	// Adapters must still deliver Text when the asset cannot be loaded.
	Banner string `json:"banner,omitempty"`

	// Keyboard is attached below the message. Optional.
	Keyboard Keyboard `json:"keyboard,omitempty"`

	// Markdown marks Text as Markdown. Adapters that cannot render it send it as is.
	Markdown bool `json:"markdown,omitempty"`
}
