package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

var gifHeader = []byte("GIF89a0000")

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestSaveAcceptsImages(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 5)
	require.NoError(t, err)

	pngName, err := saver.Save(buildFileHeader(t, "cover.png", pngHeader))
	require.NoError(t, err)
	gifName, err := saver.Save(buildFileHeader(t, "cover.gif", gifHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(pngName, ".png"))
	assert.True(t, strings.HasSuffix(gifName, ".gif"))
	assert.NotContains(t, pngName, "/", "only a filename is returned, never a path")
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 5)
	require.NoError(t, err)

	first, err := saver.Save(buildFileHeader(t, "a.png", pngHeader))
	require.NoError(t, err)
	second, err := saver.Save(buildFileHeader(t, "a.png", pngHeader))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRemoveDeletesSavedFile(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 5)
	require.NoError(t, err)

	name, err := saver.Save(buildFileHeader(t, "cover.png", pngHeader))
	require.NoError(t, err)
	require.Len(t, dirEntries(t, dir), 1)

	require.NoError(t, saver.Remove(name))
	assert.Empty(t, dirEntries(t, dir))

	// Removing again, or removing nothing, is not an error
	assert.NoError(t, saver.Remove(name))
	assert.NoError(t, saver.Remove(""))
}

func TestRemoveCannotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 5)
	require.NoError(t, err)

	outside := t.TempDir()
	victim := outside + "/keep.txt"
	require.NoError(t, os.WriteFile(victim, []byte("keep"), 0644))

	require.NoError(t, saver.Remove("../"+victim))

	_, err = os.Stat(victim)
	assert.NoError(t, err, "files outside the content directory must be untouched")
}

func TestSaveRejectsBadExtension(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 5)
	require.NoError(t, err)

	_, err = saver.Save(buildFileHeader(t, "paper.pdf", []byte("%PDF-1.4")))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, dirEntries(t, dir), "nothing may be written for a rejected file")
}

func TestSaveRejectsMasqueradingContent(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 5)
	require.NoError(t, err)

	// Right extension, but the bytes are plain text
	_, err = saver.Save(buildFileHeader(t, "sneaky.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, dirEntries(t, dir))
}

func TestSaveRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir, 1)
	require.NoError(t, err)

	big := make([]byte, 2<<20)
	copy(big, pngHeader)

	_, err = saver.Save(buildFileHeader(t, "huge.png", big))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, dirEntries(t, dir))
}
