package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/sandeepkv93/mytodo/internal/model"
)

func TestExportFormats(t *testing.T) {
	lists := []model.List{{Name: "Groceries"}}
	tasks := sampleTasks()

	cases := []struct {
		format string
		decode func([]byte, *exportDoc) error
	}{
		{FormatJSON, func(b []byte, d *exportDoc) error { return json.Unmarshal(b, d) }},
		{FormatYAML, func(b []byte, d *exportDoc) error { return yaml.Unmarshal(b, d) }},
		{FormatTOML, func(b []byte, d *exportDoc) error { return toml.Unmarshal(b, d) }},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, tc.format, tasks, lists))

			var doc exportDoc
			require.NoError(t, tc.decode(buf.Bytes(), &doc))
			require.Len(t, doc.Tasks, 2)
			assert.Equal(t, "Buy milk", doc.Tasks[0].Title)
			assert.Equal(t, "2026-10-16", doc.Tasks[0].DueDate)
			assert.Equal(t, "18:30", doc.Tasks[0].DueTime)
			assert.Equal(t, "Groceries", doc.Tasks[0].List)
			assert.True(t, doc.Tasks[1].Completed)
			require.Len(t, doc.Lists, 1)
			assert.Equal(t, "Groceries", doc.Lists[0].Name)
		})
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	err := Export(&bytes.Buffer{}, "xml", nil, nil)
	assert.Error(t, err)
}
