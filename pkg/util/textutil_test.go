package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClampText(t *testing.T) {
	assert.Equal(t, "short", ClampText("short", 10, "..."))
	assert.Equal(t, "exactly10!", ClampText("exactly10!", 10, "..."))
	assert.Equal(t, "this is...", ClampText("this is a long title", 10, "..."))
}

func TestClampTextSuffixCountsTowardLimit(t *testing.T) {
	clamped := ClampText(strings.Repeat("a", 100), 10, "...")
	assert.Equal(t, 10, utf8.RuneCountInString(clamped))
	assert.True(t, strings.HasSuffix(clamped, "..."))
}

func TestClampTextMultibyte(t *testing.T) {
	clamped := ClampText("héllo wörld, this is löng", 10, "...")
	assert.Equal(t, 10, utf8.RuneCountInString(clamped))
	assert.Equal(t, "héllo w...", clamped)
}
