// Package usage folds token usage across a conversation.
package usage

import "fmt"

// TokenStats counts the tokens sent to and produced by the model.
// The zero value is the identity of Add.
type TokenStats struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// Add returns the pairwise sum of s and other.
func (s TokenStats) Add(other TokenStats) TokenStats {
	return TokenStats{
		Input:  s.Input + other.Input,
		Output: s.Output + other.Output,
	}
}

func (s TokenStats) Total() int64 {
	return s.Input + s.Output
}

func (s TokenStats) String() string {
	return fmt.Sprintf("TokenStats(input=%d, output=%d, total=%d)", s.Input, s.Output, s.Total())
}
