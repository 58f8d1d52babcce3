package services

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUsername(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "zero width joiner", in: "al\u200dice", want: "alice"},
		{name: "rtl override", in: "\u202eecila", want: "ecila"},
		{name: "bom and spaces", in: "  \ufeffbob ", want: "bob"},
		{name: "only invisible", in: "\u200b\u200c", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "max length", in: strings.Repeat("a", MaxNameLength), want: strings.Repeat("a", MaxNameLength)},
		{name: "too long", in: strings.Repeat("a", MaxNameLength+1), wantErr: true},
		{name: "multibyte counted as runes", in: strings.Repeat("ж", MaxNameLength), want: strings.Repeat("ж", MaxNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanUsername(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
