package model

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ThemeRequest represents a theme update.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse represents the stored theme of the current owner.
type ThemeResponse struct {
	Theme string `json:"theme"`
}
