package chapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"The Great Novel: Part I": "The_Great_Novel_Part_I.md",
		"The Novel's Extra":       "The_Novels_Extra.md",
		"  Padded  ":              "__Padded__.md",
		"Tab\tSeparated":          "Tab_Separated.md",
		"Re:Zero (Web Novel) #2":  "ReZero_Web_Novel_2.md",
		"転生したらスライムだった件":           "転生したらスライムだった件.md",
		"?!": "novel.md",
	}

	for title, want := range tests {
		assert.Equal(t, want, OutputName(title), title)
	}
}

func TestSanitizeTitle_KeepsRepeatedWhitespace(t *testing.T) {
	assert.Equal(t, "A__B", SanitizeTitle("A  B"))
}
