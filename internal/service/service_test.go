package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/kankatext/internal/models"
)

// writeRecord stores payload double-encoded, as the Kanka export does.
func writeRecord(t *testing.T, root, folder, name, payload string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func writeRaw(t *testing.T, root, folder, name, content string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func sampleCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeRecord(t, root, "characters", "bob.json", `{
		"id": 5, "name": "Bob", "title": "Baker",
		"entry": "<p>Friend of [family:10] and [race:99].</p>",
		"character_races": [{"race_id": 7}]
	}`)
	writeRecord(t, root, "characters", "ann.json", `{"id": 6, "name": "Ann", "entry": "<p>Sister of [character:5|Bobby].</p>"}`)
	writeRecord(t, root, "families", "bakers.json", `{
		"id": 10, "name": "Bakers",
		"pivotMembers": [{"character_id": 5}, {"character_id": 404}]
	}`)
	writeRecord(t, root, "races", "humans.json", `{"id": 7, "name": "Humans", "entity": {"entry": "<p>Many.</p>"}}`)
	writeRecord(t, root, "organisations", "guild.json", `{"id": 20, "name": "Guild", "is_defunct": true}`)
	writeRaw(t, root, "quests", "ignored.json", `"{\"id\": 30, \"name\": \"Quest\"}"`)
	writeRaw(t, root, "characters", "readme.txt", "not a record")
	return root
}

func TestCollectFiles(t *testing.T) {
	root := sampleCorpus(t)
	writeRecord(t, root, filepath.Join("nested", "notes"), "n.json", `{"id": 40, "name": "Deep"}`)

	files, err := CollectFiles(root, nil)
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		got = append(got, rel+"="+f.Type.Label())
	}
	assert.Equal(t, []string{
		filepath.Join("characters", "ann.json") + "=Character",
		filepath.Join("characters", "bob.json") + "=Character",
		filepath.Join("families", "bakers.json") + "=Family",
		filepath.Join("nested", "notes", "n.json") + "=Note",
		filepath.Join("organisations", "guild.json") + "=Organisation",
		filepath.Join("races", "humans.json") + "=Race",
	}, got)
}

func TestCollectFiles_MissingRoot(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "nope"), nil)
	assert.ErrorIs(t, err, ErrCorpusRoot)
}

func TestBuildIndex(t *testing.T) {
	root := sampleCorpus(t)
	writeRecord(t, root, "notes", "anon.json", `{"id": 50}`)
	writeRaw(t, root, "notes", "broken.json", `{not json`)

	logger, logs := testLogger()
	idx, stats, err := BuildIndex(context.Background(), root, logger)
	require.NoError(t, err)

	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, 5, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)

	bob, ok := idx.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, models.Identity{Name: "Bob", Type: "Character"}, bob)

	_, ok = idx.Lookup(30)
	assert.False(t, ok, "unrecognized folders are not indexed")
	_, ok = idx.Lookup(50)
	assert.False(t, ok, "records without a name are not indexed")

	assert.Contains(t, logs.String(), "could not parse record")
	assert.Contains(t, logs.String(), "broken.json")
}

func TestBuildIndex_LastWriteWins(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "characters", "a.json", `{"id": 1, "name": "First"}`)
	writeRecord(t, root, "races", "b.json", `{"id": 1, "name": "Second"}`)

	idx, stats, err := BuildIndex(context.Background(), root, nil)
	require.NoError(t, err)

	ident, ok := idx.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, models.Identity{Name: "Second", Type: "Race"}, ident)
	assert.Equal(t, 1, stats.Duplicate)
}

func TestBuildIndex_Cancelled(t *testing.T) {
	root := sampleCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := BuildIndex(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvert(t *testing.T) {
	root := sampleCorpus(t)
	out := filepath.Join(t.TempDir(), "out")

	logger, _ := testLogger()
	result, err := NewConvertService(logger).Convert(context.Background(), ConvertOptions{
		InputDir:  root,
		OutputDir: out,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Index.Indexed)
	assert.Equal(t, 5, result.Total())
	assert.Equal(t, 2, result.Processed[models.TypeCharacter])
	assert.Equal(t, 1, result.Unresolved) // [race:99]; roster placeholders are not mentions
	assert.Len(t, result.FilesWritten, 4)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"characters.txt", "families.txt", "organisations.txt", "races.txt"}, names)

	chars := readFile(t, filepath.Join(out, "characters.txt"))
	parts := strings.Split(chars, RecordSeparator)
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], " CHARACTER: Ann\n")
	assert.Contains(t, parts[0], "Sister of Bob (Character).")
	assert.Contains(t, parts[1], " CHARACTER: Bob\n")
	assert.Contains(t, parts[1], "Race: Humans\n")
	assert.Contains(t, parts[1], "Friend of Bakers (Family) and [Race Not Found: 99].")

	families := readFile(t, filepath.Join(out, "families.txt"))
	assert.Contains(t, families, "- Bob (Character)\n- [Character Not Found: 404]\n")

	assert.Contains(t, readFile(t, filepath.Join(out, "organisations.txt")), "Status: Defunct")
}

func TestConvert_Deterministic(t *testing.T) {
	root := sampleCorpus(t)
	first := filepath.Join(t.TempDir(), "a")
	second := filepath.Join(t.TempDir(), "b")

	svc := NewConvertService(nil)
	_, err := svc.Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: first})
	require.NoError(t, err)
	_, err = svc.Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: second})
	require.NoError(t, err)

	for _, typ := range models.AllTypes() {
		name := typ.Folder() + ".txt"
		a, errA := os.ReadFile(filepath.Join(first, name))
		b, errB := os.ReadFile(filepath.Join(second, name))
		assert.Equal(t, errA == nil, errB == nil, name)
		assert.True(t, bytes.Equal(a, b), "%s differs between runs", name)
	}
}

func TestConvert_EmptyCorpus(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "quests"), 0755))
	out := filepath.Join(t.TempDir(), "out")

	logger, logs := testLogger()
	result, err := NewConvertService(logger).Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: out})
	require.NoError(t, err)

	assert.Empty(t, result.FilesWritten)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestConvert_BadRecordIsolated(t *testing.T) {
	root := sampleCorpus(t)
	writeRaw(t, root, "races", "bad.json", `"{\"id\": \"seven\"}"`)
	out := filepath.Join(t.TempDir(), "out")

	result, err := NewConvertService(nil).Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: out})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesFailed)
	assert.Equal(t, 1, result.Index.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "bad.json")
	assert.Equal(t, 1, result.Processed[models.TypeRace])
}

func TestConvert_DryRun(t *testing.T) {
	root := sampleCorpus(t)
	out := filepath.Join(t.TempDir(), "out")

	result, err := NewConvertService(nil).Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: out, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Total())
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestConvert_MentionLabels(t *testing.T) {
	root := sampleCorpus(t)
	out := filepath.Join(t.TempDir(), "out")

	_, err := NewConvertService(nil).Convert(context.Background(), ConvertOptions{InputDir: root, OutputDir: out, MentionLabels: true})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(out, "characters.txt")), "Sister of Bobby (Character).")
}

func TestConvert_MissingInput(t *testing.T) {
	_, err := NewConvertService(nil).Convert(context.Background(), ConvertOptions{
		InputDir:  filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, ErrCorpusRoot)
}

func TestBufferFlush(t *testing.T) {
	buf := NewBuffer()
	buf.Add(models.TypeRace, "one")
	buf.Add(models.TypeRace, "two")
	buf.Add(models.TypeNote, "only")

	dir := filepath.Join(t.TempDir(), "nested", "out")
	written, err := buf.Flush(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt"), filepath.Join(dir, "races.txt")}, written)

	sep := "\n\n\n" + strings.Repeat("=", 80) + "\n\n\n"
	assert.Equal(t, "one"+sep+"two", readFile(t, filepath.Join(dir, "races.txt")))
	assert.Equal(t, "only", readFile(t, filepath.Join(dir, "notes.txt")))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
