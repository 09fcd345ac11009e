package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUISection(t *testing.T) {
	section := NewUISection()
	assert.NotNil(t, section)
	assert.Equal(t, SurfaceTUI, section.Surface)
	assert.True(t, section.ShowThinking)
}

func TestUISection_ID(t *testing.T) {
	section := NewUISection()
	assert.Equal(t, SectionIDUI, section.ID())
	assert.Equal(t, "ui", section.ID())
}

func TestUISection_Data(t *testing.T) {
	section := NewUISection()
	section.SetSurface(SurfaceCLI)
	section.SetShowThinking(false)

	data := section.Data()
	assert.Equal(t, SurfaceCLI, data["surface"])
	assert.Equal(t, false, data["show_thinking"])
}

func TestUISection_SetData(t *testing.T) {
	tests := []struct {
		name          string
		data          map[string]any
		expectSurface string
		expectShow    bool
		expectError   bool
	}{
		{
			name: "valid data",
			data: map[string]any{
				"surface":       SurfaceCLI,
				"show_thinking": false,
			},
			expectSurface: SurfaceCLI,
			expectShow:    false,
		},
		{
			name:          "nil data keeps defaults",
			data:          nil,
			expectSurface: SurfaceTUI,
			expectShow:    true,
		},
		{
			name: "unknown keys ignored",
			data: map[string]any{
				"future_setting": "x",
			},
			expectSurface: SurfaceTUI,
			expectShow:    true,
		},
		{
			name: "invalid surface type",
			data: map[string]any{
				"surface": 42,
			},
			expectError: true,
		},
		{
			name: "invalid show_thinking type",
			data: map[string]any{
				"show_thinking": "yes",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := NewUISection()
			err := section.SetData(tt.data)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectSurface, section.GetSurface())
			assert.Equal(t, tt.expectShow, section.GetShowThinking())
		})
	}
}

func TestUISection_Validate(t *testing.T) {
	section := NewUISection()
	assert.NoError(t, section.Validate())

	section.SetSurface(SurfaceCLI)
	assert.NoError(t, section.Validate())

	section.SetSurface("web")
	assert.Error(t, section.Validate())
}

func TestUISection_Reset(t *testing.T) {
	section := NewUISection()
	section.SetSurface(SurfaceCLI)
	section.SetShowThinking(false)

	section.Reset()

	assert.Equal(t, SurfaceTUI, section.GetSurface())
	assert.True(t, section.GetShowThinking())
}
