package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dragons", "dragons"},
		{"Dragons", "dragons"},
		{"Dragons & Knights", "dragons-knights"},
		{"  quest  ", "quest"},
		{"Épée", "epee"},
		{"sci-fi", "sci-fi"},
		{"---", ""},
		{"", ""},
		{"魔法", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.input))
		})
	}
}
