package generate

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenEncoder *tiktoken.Tiktoken
	encoderOnce  sync.Once
	encoderErr   error
)

// CountTokens counts cl100k_base tokens in text, estimating when the
// encoding cannot be loaded.
func CountTokens(text string) int {
	encoderOnce.Do(func() {
		tokenEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	if encoderErr != nil {
		return EstimateTokens(text)
	}
	return len(tokenEncoder.Encode(text, nil, nil))
}

// EstimateTokens approximates a token count at four bytes per token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
