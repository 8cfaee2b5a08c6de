package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "What helps a headache?", DeriveTitle("What helps a headache?"))
	assert.Equal(t, "trimmed", DeriveTitle("  trimmed  "))
	assert.Equal(t, "New conversation", DeriveTitle("   "))
}

func TestDeriveTitle_TruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 200)
	title := DeriveTitle(long)

	assert.True(t, strings.HasSuffix(title, "…"))
	assert.LessOrEqual(t, len([]rune(title)), titleMaxRunes+1)
}
