package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testItems = `
- key: common.items.lantern.black_0
  name: Black Lantern
  kind: lantern
  color: [255, 190, 95]
  strength: 4.0
- key: common.items.debug.possess
  name: Admin's Possession Orb
  kind: tool
  tool_type: debug
  abilities:
    - name: blink
      power: 1.0
    - name: firebolt
      power: 3.5
- key: common.items.food.apple
  name: Apple
`

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "item_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadItemTable(t *testing.T) {
	tbl, err := LoadItemTable(writeTable(t, testItems))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Count())

	lantern, ok := tbl.Get("common.items.lantern.black_0")
	require.True(t, ok)
	require.Equal(t, ItemKindLantern, lantern.Kind)
	require.Equal(t, [3]uint8{255, 190, 95}, lantern.Color)
	require.InDelta(t, 4.0, lantern.Strength, 0.001)

	tool := tbl.MustGet("common.items.debug.possess")
	require.Equal(t, ItemKindTool, tool.Kind)
	require.Len(t, tool.Abilities, 2)
	require.Equal(t, "blink", tool.Abilities[0].Name)

	// Kind defaults to misc when omitted.
	apple, ok := tbl.Get("common.items.food.apple")
	require.True(t, ok)
	require.Equal(t, ItemKindMisc, apple.Kind)
}

func TestLoadItemTableRejectsDuplicates(t *testing.T) {
	_, err := LoadItemTable(writeTable(t, `
- key: a
  kind: misc
- key: a
  kind: misc
`))
	require.Error(t, err)
}

func TestMustGetPanicsOnMissingAsset(t *testing.T) {
	tbl, err := LoadItemTable(writeTable(t, `[]`))
	require.NoError(t, err)
	require.Panics(t, func() { tbl.MustGet("common.items.debug.possess") })
}
