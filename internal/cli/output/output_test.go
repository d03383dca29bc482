package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_ModeResolution(t *testing.T) {
	var buf bytes.Buffer

	// Auto resolves to JSON for non-terminal writers.
	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.True(t, r.JSON())

	r = NewRenderer(&buf, &buf, "")
	assert.True(t, r.JSON())

	r = NewRenderer(&buf, &buf, ModeText)
	assert.False(t, r.JSON())

	r = NewRenderer(&buf, &buf, ModeJSON)
	assert.True(t, r.JSON())
}

func TestRenderer_Encode(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)

	require.NoError(t, r.Encode(map[string]int{"nodes": 3}))
	assert.Contains(t, buf.String(), `"nodes": 3`)
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	r.Table(table.Row{"Name", "Kind"}, []table.Row{
		{"public.users", "table"},
		{"public.report", "view"},
	})

	out := buf.String()
	assert.Contains(t, out, "public.users")
	assert.Contains(t, out, "public.report")
	assert.Contains(t, out, "NAME")
}

func TestRenderer_ErrorfGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Errorf("boom: %s\n", "details")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "boom: details")
}
