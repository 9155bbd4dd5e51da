package theme

import (
	"image/color"
)

// Theme defines the colours of the window and terminal shells.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the surface and panels
	Foreground color.RGBA // text

	// Side panels
	PanelBackground color.RGBA
	PanelBorder     color.RGBA

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA
	ButtonDisabled        color.RGBA

	// Session progress
	Accent       color.RGBA // click progress while locked
	ProgressDone color.RGBA // strokes used
	ProgressTodo color.RGBA // strokes left
	Warning      color.RGBA // quota spent
}

// Default returns the built in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{0xF3, 0xE8, 0xFF, 255},
		Foreground:            color.RGBA{0x1F, 0x29, 0x37, 255},
		PanelBackground:       color.RGBA{0xFF, 0xFF, 0xFF, 255},
		PanelBorder:           color.RGBA{0xE5, 0xE7, 0xEB, 255},
		ButtonBackground:      color.RGBA{0xEC, 0x48, 0x99, 255},
		ButtonBackgroundHover: color.RGBA{0xDB, 0x27, 0x77, 255},
		ButtonBackgroundPress: color.RGBA{0xBE, 0x18, 0x5D, 255},
		ButtonText:            color.RGBA{0xFF, 0xFF, 0xFF, 255},
		ButtonBorder:          color.RGBA{0x9D, 0x17, 0x4D, 255},
		ButtonDisabled:        color.RGBA{0xD1, 0xD5, 0xDB, 255},
		Accent:                color.RGBA{0x8B, 0x5C, 0xF6, 255},
		ProgressDone:          color.RGBA{0xEC, 0x48, 0x99, 255},
		ProgressTodo:          color.RGBA{0xE5, 0xE7, 0xEB, 255},
		Warning:               color.RGBA{0xEF, 0x44, 0x44, 255},
	}
}
