package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kodak Portra 400", "kodak-portra-400"},
		{"Café Crème", "cafe-creme"},
		{"X-Trans IV", "x-trans-iv"},
		{"  Classic   Chrome  ", "classic-chrome"},
		{"Ｘ１００Ｖ", "x100v"},
		{"--Reala Ace--", "reala-ace"},
		{"日本語", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "kodachrome", slugCandidate("kodachrome", 0))
	assert.Equal(t, "kodachrome-1", slugCandidate("kodachrome", 1))
	assert.Equal(t, "kodachrome-12", slugCandidate("kodachrome", 12))
}
