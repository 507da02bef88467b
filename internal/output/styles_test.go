package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantFG   lipgloss.TerminalColor
		wantBold bool
		wantDim  bool
	}{
		{name: "created is green", status: StatusCreated, wantFG: ColorGreen},
		{name: "in sync is green", status: StatusInSync, wantFG: ColorGreen},
		{name: "out of sync is yellow", status: StatusOutOfSync, wantFG: ColorYellow},
		{name: "skipped is yellow", status: StatusSkipped, wantFG: ColorYellow},
		{name: "custom is faint", status: StatusCustom, wantDim: true},
		{name: "failed is bold red", status: StatusFailed, wantFG: ColorBoldRed, wantBold: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.status)
			if tt.wantFG != nil {
				assert.Equal(t, tt.wantFG, style.GetForeground())
			}
			assert.Equal(t, tt.wantBold, style.GetBold())
			assert.Equal(t, tt.wantDim, style.GetFaint())
		})
	}
}

func TestStatusStyle_Unknown(t *testing.T) {
	style := StatusStyle("whatever")
	assert.False(t, style.GetBold())
	assert.False(t, style.GetFaint())
}

func TestFormatFileLine(t *testing.T) {
	line := FormatFileLine("render.yaml", StatusCreated)
	assert.Contains(t, line, "render.yaml")
	assert.Contains(t, line, StatusCreated)
}

func TestFormatCheckmark(t *testing.T) {
	assert.Contains(t, FormatCheckmark("Project created"), "Project created")
}
