package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("same title", "same title"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.InDelta(t, 0.75, Ratio("abcd", "abcx"), 1e-9)
}

func TestTitlesIgnoresPunctuationAndOutletSuffix(t *testing.T) {
	assert.Equal(t, 1.0, Titles("OpenAI launches GPT-5!", "openai launches gpt5"))
	assert.Equal(t, 1.0, Titles("Fed holds rates - Reuters", "Fed holds rates"))
	assert.Less(t, Titles("Fed holds rates", "Ransomware hits hospital"), 0.5)
	// both normalize to ""
	assert.Equal(t, 1.0, Titles("???", "!!!"))
}
