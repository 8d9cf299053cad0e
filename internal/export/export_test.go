package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hay-kot/textsnap/internal/core/history"
)

func sampleItems() []history.Item {
	return []history.Item{
		{
			ID:       "b",
			ImageURI: "/tmp/b.jpg",
			Text:     "second line\nwith newline",
			Date:     time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:       "a",
			ImageURI: "/tmp/a.jpg",
			Text:     "Монгол бичиг",
			Date:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatXLSX, FormatFromPath("out/history.XLSX", FormatJSON))
	assert.Equal(t, FormatJSON, FormatFromPath("history.json", FormatXLSX))
	assert.Equal(t, FormatJSON, FormatFromPath("history", FormatJSON))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleItems()))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "b", raw[0]["id"])
	assert.Equal(t, "/tmp/b.jpg", raw[0]["imageUri"])
	assert.Equal(t, "2024-05-02T10:30:00Z", raw[0]["date"])
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleItems()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Date", "Image", "Text"}, rows[0])
	assert.Equal(t, []string{"b", "2024-05-02T10:30:00Z", "/tmp/b.jpg", "second line\nwith newline"}, rows[1])
	assert.Equal(t, "Монгол бичиг", rows[2][3])
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("pdf"), sampleItems()))
}
