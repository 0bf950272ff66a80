package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "atx heading", doc: "intro\n\n# Checkout Redesign\n\nbody", want: "Checkout Redesign"},
		{name: "heading with emphasis", doc: "## The *new* flow\n", want: "The new flow"},
		{name: "setext heading", doc: "Payments\n========\n", want: "Payments"},
		{name: "no heading uses first line", doc: "\n\n  Plain first line\nsecond", want: "Plain first line"},
		{name: "bare hashes are stripped", doc: "#tagged line", want: "tagged line"},
		{name: "empty document", doc: "  \n\n", want: DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentTitle(tt.doc))
		})
	}
}
