package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/silkcache"
	c "github.com/unkn0wn-root/silkcache/codec"
)

type entry struct {
	ID    string `msgpack:"id" json:"id" cbor:"id"`
	Title string `msgpack:"title" json:"title" cbor:"title"`
}

func (e *entry) SameAs(o *entry) bool { return o != nil && e.ID == o.ID }
func (e *entry) ShouldIgnore() bool   { return false }

func seed(t *testing.T, dir string, codec c.Codec[*entry], items ...*entry) {
	t.Helper()
	ctx := context.Background()
	m, err := silkcache.New[*entry](silkcache.Options[*entry]{Name: "Feed", Dir: dir, Codec: codec})
	require.NoError(t, err)
	defer m.Close(ctx)
	m.Set(items...)
	_, err = m.Commit(ctx)
	require.NoError(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, nil, &entry{ID: "1", Title: "a"}, &entry{ID: "2", Title: "b"})

	out, err := run(t, "inspect", "feed", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "cache:     feed.cache")
	assert.Contains(t, out, filepath.Join(dir, "feed.cache"))
	assert.Contains(t, out, "records:   2")
	assert.Contains(t, out, "integrity: ok")
}

func TestInspectMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "inspect", "nothing", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "exists:    no")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("SLKC\x01\x01\x00"), 0o644))
	out, err = run(t, "inspect", "bad", "--dir", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "CORRUPT")
}

func TestDumpCodecs(t *testing.T) {
	items := []*entry{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	for name, codec := range map[string]c.Codec[*entry]{
		"msgpack": c.Msgpack[*entry]{},
		"cbor":    c.MustCBOR[*entry](true),
		"json":    c.JSON[*entry]{},
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			seed(t, dir, codec, items...)

			out, err := run(t, "dump", "feed", "--dir", dir, "--codec", name)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 2)
			assert.JSONEq(t, `{"id":"1","title":"a"}`, lines[0])
			assert.JSONEq(t, `{"id":"2","title":"b"}`, lines[1])
		})
	}
}

func TestRm(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, nil, &entry{ID: "1"})

	out, err := run(t, "rm", "feed", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed feed.cache")
	_, err = os.Stat(filepath.Join(dir, "feed.cache"))
	assert.True(t, os.IsNotExist(err))

	// removing a missing cache is not an error
	_, err = run(t, "rm", "feed", "--dir", dir)
	assert.NoError(t, err)
}

func TestConfigFileAndBadCodec(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, c.JSON[*entry]{}, &entry{ID: "7", Title: "x"})

	path := filepath.Join(t.TempDir(), "silk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: json\ndir: "+dir+"\n"), 0o644))
	out, err := run(t, "dump", "feed", "--config", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","title":"x"}`, strings.TrimSpace(out))

	_, err = run(t, "dump", "feed", "--dir", dir, "--codec", "gob")
	assert.Error(t, err)
}
