package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	a := Hash("https://mytcas.com/programs/1")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Hash("https://mytcas.com/programs/1"))
	assert.NotEqual(t, a, Hash("https://mytcas.com/programs/2"))
	assert.NotEqual(t, Hash("ab", "c"), Hash("a", "bc"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://mytcas.com/search?q=x")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"/programs/10020101", "https://mytcas.com/programs/10020101"},
		{"programs/1", "https://mytcas.com/programs/1"},
		{"https://other.example/programs/2", "https://other.example/programs/2"},
		{" /programs/3 ", "https://mytcas.com/programs/3"},
	}
	for _, tt := range tests {
		got, err := ToAbsoluteURL(base, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestIsAbsoluteHTTPURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.edu/fees":   true,
		"http://example.edu":         true,
		"  https://example.edu/x  ":  true,
		"example.edu/fees":           false,
		"ftp://example.edu/fees":     false,
		"https://":                   false,
		"see https://example.edu":    false,
		"":                           false,
		"ดูรายละเอียดที่เว็บไซต์คณะ": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsAbsoluteHTTPURL(in), "input %q", in)
	}
}
