package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type GenerateRequest struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string   `json:"password"`
	Length   int      `json:"length"`
	Classes  []string `json:"classes"`
}

// CharacterClassResponse describes one of the fixed character classes.
type CharacterClassResponse struct {
	Name    string `json:"name"`
	Charset string `json:"charset"`
	Size    int    `json:"size"`
}

// GeneratorLimits describes the accepted length range and default.
type GeneratorLimits struct {
	MinLength     int `json:"min_length"`
	MaxLength     int `json:"max_length"`
	DefaultLength int `json:"default_length"`
}

// ClassesResponse lists the character classes and the length limits.
type ClassesResponse struct {
	Classes []CharacterClassResponse `json:"classes"`
	Limits  GeneratorLimits          `json:"limits"`
}
