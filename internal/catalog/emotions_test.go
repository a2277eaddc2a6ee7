package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmotionTable_KnownEmotion(t *testing.T) {
	table := DefaultEmotionTable()

	happy := table.Params("happy")
	require.Equal(t, Range{0.6, 1.0}, happy.Valence)
	require.Equal(t, Range{0.5, 1.0}, happy.Energy)

	// Case-insensitive lookup.
	require.Equal(t, happy, table.Params("HAPPY"))
}

func TestEmotionTable_UnknownFallsBackToNeutral(t *testing.T) {
	table := DefaultEmotionTable()

	params := table.Params("melancholic")
	require.Equal(t, Range{0.4, 0.6}, params.Valence)
	require.Equal(t, Range{0.4, 0.6}, params.Energy)
}

func TestEmotionTable_SerializesRangesAsArrays(t *testing.T) {
	data, err := json.Marshal(DefaultEmotionTable().Params("sad"))
	require.NoError(t, err)
	require.JSONEq(t, `{"valence":[0.0,0.4],"energy":[0.0,0.5]}`, string(data))
}

func TestLoadEmotionTable_MergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emotions.yaml")
	override := "Happy:\n  valence: [0.7, 1.0]\n  energy: [0.6, 1.0]\nnostalgic:\n  valence: [0.3, 0.6]\n  energy: [0.2, 0.5]\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	table, err := LoadEmotionTable(path)
	require.NoError(t, err)

	require.Equal(t, Range{0.7, 1.0}, table.Params("happy").Valence)
	require.Equal(t, Range{0.3, 0.6}, table.Params("nostalgic").Valence)
	// Untouched defaults survive the merge.
	require.Equal(t, Range{0.0, 0.4}, table.Params("sad").Valence)
}

func TestLoadEmotionTable_EmptyPathUsesDefaults(t *testing.T) {
	table, err := LoadEmotionTable("")
	require.NoError(t, err)
	require.Len(t, table.All(), 4)
}

func TestLoadEmotionTable_MissingFileErrors(t *testing.T) {
	_, err := LoadEmotionTable(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
