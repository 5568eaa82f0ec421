package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCodeGenerator(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{name: "default length", length: 6, want: 6},
		{name: "longer codes", length: 10, want: 10},
		{name: "zero falls back to default", length: 0, want: DefaultCodeLength},
		{name: "negative falls back to default", length: -3, want: DefaultCodeLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRandomCodeGenerator(tt.length)

			for i := 0; i < 200; i++ {
				code := g.Generate()
				assert.Len(t, code, tt.want)
				assert.True(t, isValidCode(code), "unexpected code %q", code)
			}
		})
	}
}

func TestRandomCodeGenerator_CoversAlphabet(t *testing.T) {
	g := NewRandomCodeGenerator(8)
	seen := make(map[rune]bool)

	for i := 0; i < 5000; i++ {
		for _, c := range g.Generate() {
			seen[c] = true
		}
	}

	assert.Len(t, seen, len(alphabet))
}

func TestIsValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "aZ09bY", want: true},
		{code: "aZ09b", want: true},
		{code: "A", want: true},
		{code: "abcdefghijklmnopqrstuvwxyz012345", want: true},
		{code: "abcdefghijklmnopqrstuvwxyz0123456", want: false},
		{code: "aZ-9bY", want: false},
		{code: "aZ09bÿ", want: false},
		{code: "a/b", want: false},
		{code: "", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidCode(tt.code), "code %q", tt.code)
	}
}

func TestIsReservedCode(t *testing.T) {
	for _, code := range []string{"health", "ping", "metrics", "shorten", "auth", "user"} {
		assert.True(t, isReservedCode(code), code)
	}
	assert.False(t, isReservedCode("Health"))
	assert.False(t, isReservedCode("Ab3dE9"))
}
