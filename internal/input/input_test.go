package input

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bmerrors "github.com/docparse/bounds-matcher/internal/errors"
)

func TestParseValidPayload(t *testing.T) {
	req, err := Parse([]byte(`{
		"pdf_file": "report.pdf",
		"entities": [
			{"name": "Total Revenue", "type": "kpi"},
			{"name": "Acme Corp", "type": "organization"}
		]
	}`))

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", req.PDFFile)
	require.Len(t, req.Entities, 2)
	assert.Equal(t, "Total Revenue", req.Entities[0].Name)
	assert.Equal(t, "kpi", req.Entities[0].Type)
}

func TestParseEmptyEntityList(t *testing.T) {
	req, err := Parse([]byte(`{"pdf_file": "report.pdf", "entities": []}`))

	require.NoError(t, err)
	require.NotNil(t, req.Entities)
	assert.Empty(t, req.Entities)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"pdf_file": `))

	require.Error(t, err)
	assert.True(t, errors.Is(err, bmerrors.ErrMalformedInput))

	var malformed *bmerrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, -1, malformed.Position)
}

func TestParseMissingPDFFile(t *testing.T) {
	_, err := Parse([]byte(`{"entities": []}`))

	require.Error(t, err)
	var malformed *bmerrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, -1, malformed.Position)
}

func TestParseReportsOffendingEntityPosition(t *testing.T) {
	_, err := Parse([]byte(`{
		"pdf_file": "report.pdf",
		"entities": [
			{"name": "Total Revenue", "type": "kpi"},
			{"name": "", "type": "kpi"},
			{"name": "Acme Corp", "type": "organization"}
		]
	}`))

	require.Error(t, err)
	var malformed *bmerrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Position)
}

func TestParseEntityMissingType(t *testing.T) {
	_, err := Parse([]byte(`{
		"pdf_file": "report.pdf",
		"entities": [{"name": "Total Revenue"}]
	}`))

	require.Error(t, err)
	var malformed *bmerrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, malformed.Position)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pdf_file": "r.pdf", "entities": []}`), 0o644))

	req, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "r.pdf", req.PDFFile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, bmerrors.ErrMalformedInput))
}

func TestLoadKeepsPositionContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pdf_file": "r.pdf", "entities": [{}]}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var malformed *bmerrors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, malformed.Position)
}
