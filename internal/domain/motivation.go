package domain

// Motivation is a generated motivational speech.
type Motivation struct {
	Title  string
	Speech string
}
