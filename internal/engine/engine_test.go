package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const patternJSON = `{
  "Version": 1,
  "UseRegex": false,
  "Entities": [
    {"ID": 0, "Signature": null},
    {"ID": 1, "Signature": null},
    {"ID": 2, "Signature": null}
  ],
  "Events": [
    {"ID": 0, "Signature": "a", "SubjectID": 0, "ObjectID": 1, "Parents": []},
    {"ID": 1, "Signature": "b", "SubjectID": 1, "ObjectID": 2, "Parents": [0]}
  ]
}`

func TestEngine_EndToEndProducesOneMatch(t *testing.T) {
	dir := t.TempDir()
	patternPath := filepath.Join(dir, "pattern.json")
	require.NoError(t, os.WriteFile(patternPath, []byte(patternJSON), 0o644))

	var out bytes.Buffer
	eng, err := New(patternPath, Config{Window: 1000, Silent: false}, &out)
	require.NoError(t, err)
	defer eng.Close()

	csvData := "100,110,e0,a,A,,B,\n120,130,e1,b,B,,C,\n"
	require.NoError(t, eng.Run(strings.NewReader(csvData)))

	require.EqualValues(t, 1, eng.MatchCount())
	require.Contains(t, out.String(), "[e0, ")
	require.Contains(t, out.String(), ", e1]")
}

func TestEngine_NoMatchWhenEntitiesDontLineUp(t *testing.T) {
	dir := t.TempDir()
	patternPath := filepath.Join(dir, "pattern.json")
	require.NoError(t, os.WriteFile(patternPath, []byte(patternJSON), 0o644))

	var out bytes.Buffer
	eng, err := New(patternPath, Config{Window: 1000, Silent: true}, &out)
	require.NoError(t, err)
	defer eng.Close()

	csvMismatch := "100,110,e0,a,A,,B,\n120,130,e1,b,Z,,C,\n"
	require.NoError(t, eng.Run(strings.NewReader(csvMismatch)))
	require.EqualValues(t, 0, eng.MatchCount())
}
