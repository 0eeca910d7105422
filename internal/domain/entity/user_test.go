package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Equal(t, DefaultUserSettings(), u.Settings)
}

func TestUserSettings_Params(t *testing.T) {
	s := UserSettings{ExportFormat: FormatTIFF, MinRegionSize: 50, Polarity: PolarityBright}
	require.Equal(t, AnalysisParams{MinRegionSize: 50, Polarity: PolarityBright}, s.Params())
}
