package textstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func TestLoadCreatesMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultPath)

	s, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, p, s.Path())

	info, err := os.Stat(p)
	require.NoError(t, err, "load should create the backing file")
	assert.Equal(t, int64(0), info.Size())
}

func TestLoadParsesExistingFile(t *testing.T) {
	p := writeFile(t, "milk\ttrue\neggs\tfalse\n")

	s, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	done, ok := s.Get("milk")
	assert.True(t, ok)
	assert.True(t, done)

	done, ok = s.Get("eggs")
	assert.True(t, ok)
	assert.False(t, done)

	_, ok = s.Get("bread")
	assert.False(t, ok)
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	p := writeFile(t, "milk\ttrue\nno tab here\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrIO)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "no tab here", pe.Text)
}

func TestLoadMissingDirectoryIsIOError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", DefaultPath)

	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, "open", ioe.Op)
	assert.Equal(t, p, ioe.Path)
}

func TestLoadUnreadableFileIsIOError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	p := writeFile(t, "milk\ttrue\n")
	require.NoError(t, os.Chmod(p, 0o200))

	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestInsertOverwritesFlag(t *testing.T) {
	s := New("unused")
	require.NoError(t, s.Set("a", false))
	require.NoError(t, s.Insert("a"))
	require.NoError(t, s.Insert("a"))

	assert.Equal(t, 1, s.Len())
	done, ok := s.Get("a")
	assert.True(t, ok)
	assert.True(t, done)
}

func TestInsertDoesNotTouchDisk(t *testing.T) {
	p := writeFile(t, "a\tfalse\n")
	s, err := Load(p)
	require.NoError(t, err)

	require.NoError(t, s.Insert("b"))
	assert.Equal(t, "a\tfalse\n", readFile(t, p))
}

func TestSaveOverwritesFile(t *testing.T) {
	p := writeFile(t, "a\tfalse\n")
	s, err := Load(p)
	require.NoError(t, err)

	require.NoError(t, s.Insert("a"))
	require.NoError(t, s.Save())
	assert.Equal(t, "a\ttrue\n", readFile(t, p))
}

func TestSaveFreshStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultPath)
	s, err := Load(p)
	require.NoError(t, err)

	require.NoError(t, s.Insert("milk"))
	require.NoError(t, s.Save())
	assert.Equal(t, "milk\ttrue\n", readFile(t, p))
}

func TestSaveEmptyStoreTruncates(t *testing.T) {
	p := writeFile(t, "milk\ttrue\n")

	require.NoError(t, New(p).Save())
	assert.Empty(t, readFile(t, p))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultPath)
	want := map[string]bool{"milk": true, "eggs": false, "call the bank": true}

	s := New(p)
	for name, done := range want {
		require.NoError(t, s.Set(name, done))
	}
	require.NoError(t, s.Save())

	loaded, err := Load(p)
	require.NoError(t, err)
	got := make(map[string]bool)
	for _, r := range loaded.Records() {
		got[r.Name] = r.Done
	}
	assert.Equal(t, want, got)
}

func TestSaveSealsStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultPath)
	s := New(p)
	require.NoError(t, s.Insert("milk"))
	require.NoError(t, s.Save())

	assert.ErrorIs(t, s.Insert("eggs"), ErrSealed)
	assert.ErrorIs(t, s.Set("eggs", false), ErrSealed)
	_, err := s.Remove("milk")
	assert.ErrorIs(t, err, ErrSealed)
	assert.ErrorIs(t, s.Save(), ErrSealed)

	assert.Equal(t, "milk\ttrue\n", readFile(t, p))
}

func TestSaveWriteFailure(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gone", DefaultPath)
	s := New(p)
	require.NoError(t, s.Insert("milk"))

	err := s.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, "write", ioe.Op)

	assert.ErrorIs(t, s.Insert("eggs"), ErrSealed)
}

func TestRemove(t *testing.T) {
	s := New("unused")
	require.NoError(t, s.Insert("milk"))

	removed, err := s.Remove("milk")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove("milk")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, s.Len())
}

func TestRecordsAndStats(t *testing.T) {
	s := New("unused")
	require.NoError(t, s.Insert("milk"))
	require.NoError(t, s.Set("bread", false))
	require.NoError(t, s.Insert("eggs"))

	assert.Equal(t, []model.Record{
		{Name: "bread", Done: false},
		{Name: "eggs", Done: true},
		{Name: "milk", Done: true},
	}, s.Records())

	done, pending := s.Stats()
	assert.Equal(t, 2, done)
	assert.Equal(t, 1, pending)
}

func TestReadsAfterSaveReportEmptyStore(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"after successful save", func(t *testing.T) string { return filepath.Join(t.TempDir(), DefaultPath) }},
		{"after failed save", func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone", DefaultPath) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.path(t))
			require.NoError(t, s.Insert("milk"))
			require.NoError(t, s.Set("eggs", false))
			assert.False(t, s.Sealed())

			_ = s.Save()
			assert.True(t, s.Sealed())
			assert.Equal(t, 0, s.Len())
			assert.Empty(t, s.Records())
			_, ok := s.Get("milk")
			assert.False(t, ok)
			done, pending := s.Stats()
			assert.Zero(t, done)
			assert.Zero(t, pending)
		})
	}
}
