package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolists/interfaces/web/presenters"
)

func TestFlash(t *testing.T) {
	tests := []struct {
		name  string
		flash *presenters.FlashVM
		want  string
	}{
		{"nil", nil, ""},
		{"success", &presenters.FlashVM{Kind: "success", Message: "The list has been created."},
			`<div class="flash success" role="status"><p>The list has been created.</p></div>`},
		{"escaped", &presenters.FlashVM{Kind: "error", Message: "<script>"},
			`<div class="flash error" role="status"><p>&lt;script&gt;</p></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Flash(tt.flash).Render(context.Background(), &buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
