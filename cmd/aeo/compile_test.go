package main_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/aeo"
	main "github.com/fwojciec/aeo/cmd/aeo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints JSON-LD to stdout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeFile(t, dir, "ml.yaml", mlRecord)
		deps, stdout, _ := testDeps(nil)

		err := (&main.CompileCmd{Files: []string{file}, Workers: 2}).Run(deps)

		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.Equal(t, "https://schema.org", doc["@context"])
		assert.Equal(t, "Article", doc["@type"])
		assert.Equal(t, "Introduction to Machine Learning", doc["headline"])
		assert.Equal(t, "AI, ML", doc["keywords"])
	})

	t.Run("reports warnings on stderr", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeFile(t, dir, "ml.yaml", mlRecord)
		deps, _, stderr := testDeps(nil)

		err := (&main.CompileCmd{Files: []string{file}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: "+file)
		assert.Contains(t, stderr.String(), aeo.WarnThinContent)
	})

	t.Run("writes one file per record to out", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "out")
		a := writeFile(t, dir, "a.yaml", mlRecord)
		b := writeFile(t, dir, "b.json", `{"id": "b", "title": "Second", "body": "<p>Body text</p>", "schemaType": "WebPage"}`)
		deps, stdout, _ := testDeps(nil)

		err := (&main.CompileCmd{Files: []string{a, b}, Out: out, Workers: 2}).Run(deps)

		require.NoError(t, err)
		for _, name := range []string{"intro-to-ml.jsonld", "b.jsonld"} {
			_, err := os.Stat(filepath.Join(out, name))
			assert.NoError(t, err, name)
		}
		assert.Contains(t, stdout.String(), a+" -> ")
		assert.Contains(t, stdout.String(), b+" -> ")
	})

	t.Run("continues past failed records", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeFile(t, dir, "good.yaml", mlRecord)
		unknown := writeFile(t, dir, "unknown.yaml", "title: T\nbody: B\nschema_type: Recipe\n")
		empty := writeFile(t, dir, "empty.yaml", "title: T\nschema_type: Article\n")
		deps, stdout, stderr := testDeps(nil)

		err := (&main.CompileCmd{Files: []string{unknown, good, empty}}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, aeo.ErrorMessage(err), "2 of 3 records failed")
		assert.Contains(t, stdout.String(), "Introduction to Machine Learning")
		assert.Contains(t, stderr.String(), "error: "+unknown)
		assert.Contains(t, stderr.String(), "error: "+empty)
	})

	t.Run("rejects records over list caps", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeFile(t, dir, "many.yaml", "title: T\nbody: B\nschema_type: Article\ntopics: [a, b, c, d, e, f]\n")
		deps, _, stderr := testDeps(nil)

		err := (&main.CompileCmd{Files: []string{file}}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "6 topics")
	})
}
