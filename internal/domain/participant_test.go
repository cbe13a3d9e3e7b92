package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "Alice", want: "Alice"},
		{name: "trimmed", in: "  Bob \t", want: "Bob"},
		{name: "empty", in: "", wantErr: ErrDisplayNameEmpty},
		{name: "whitespace only", in: "   ", wantErr: ErrDisplayNameEmpty},
		{name: "max length", in: strings.Repeat("é", MaxDisplayNameLen), want: strings.Repeat("é", MaxDisplayNameLen)},
		{name: "too long", in: strings.Repeat("a", MaxDisplayNameLen+1), wantErr: ErrDisplayNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDisplayName(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParticipantDisplayNameFallback(t *testing.T) {
	p := Participant{ID: "conn-1"}
	assert.Equal(t, "conn-1", p.DisplayName())

	p.Name = "Alice"
	assert.Equal(t, "Alice", p.DisplayName())
}

func TestRoomIDValidate(t *testing.T) {
	assert.ErrorIs(t, RoomID("").Validate(), ErrEmptyRoomID)
	assert.NoError(t, RoomID(" ").Validate())
	assert.NoError(t, RoomID("R1").Validate())
}
