package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/stats"
)

// recordingFS is an in-memory FileSystem that records every mutation.
type recordingFS struct {
	files map[string]string // path -> content; directories map to ""

	copies  [][2]string
	renames [][2]string
	removes []string
	mkdirs  []string

	renameErr error
	removeErr map[string]error
	mkdirErr  error
}

func newRecordingFS(existing ...string) *recordingFS {
	fs := &recordingFS{files: make(map[string]string), removeErr: make(map[string]error)}
	for _, p := range existing {
		fs.files[p] = ""
	}
	return fs
}

func (f *recordingFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *recordingFS) Size(path string) (int64, error) {
	content, ok := f.files[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(content)), nil
}

func (f *recordingFS) MkdirAll(path string) error {
	if f.mkdirErr != nil {
		return f.mkdirErr
	}
	f.mkdirs = append(f.mkdirs, path)
	f.files[path] = ""
	return nil
}

func (f *recordingFS) Identical(src, dst string) (bool, error) {
	return f.files[src] == f.files[dst], nil
}

func (f *recordingFS) Copy(_ context.Context, src, dst string) (int64, error) {
	f.copies = append(f.copies, [2]string{src, dst})
	f.files[dst] = f.files[src]
	return int64(len(f.files[src])), nil
}

func (f *recordingFS) Rename(src, dst string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	f.renames = append(f.renames, [2]string{src, dst})
	f.files[dst] = f.files[src]
	delete(f.files, src)
	return nil
}

func (f *recordingFS) Remove(path string) error {
	if err := f.removeErr[path]; err != nil {
		return err
	}
	f.removes = append(f.removes, path)
	delete(f.files, path)
	return nil
}

func testList(items ...item.FileItem) *item.List {
	return &item.List{Items: items}
}

func fileItem(path string, ts int64, takeOver bool) item.FileItem {
	return item.FileItem{Path: path, Timestamp: ts, TakeOver: takeOver, Type: item.Image}
}

// runSieve runs cfg to completion and returns every emitted event.
func runSieve(t *testing.T, ctx context.Context, cfg Config) (Result, []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 256)
	cfg.Events = ch
	res := Run(ctx, cfg)
	close(ch)

	var events []event.Event
	for ev := range ch {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, event.Done, events[len(events)-1].Type, "Done must be the last event")
	return res, events
}

func lines(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.String())
	}
	return out
}

func TestSieveMethods(t *testing.T) {
	target := "target"
	src1 := filepath.Join("test", "test1.jpg")
	src2 := filepath.Join("test", "test2.jpg")
	bucket := filepath.Join(target, "1970-01")
	dst1 := filepath.Join(bucket, "test1.jpg")

	tests := []struct {
		name    string
		method  Method
		copies  [][2]string
		renames [][2]string
		removes []string
		mkdirs  []string
	}{
		{name: "delete", method: Delete, removes: []string{src2}},
		{name: "copy", method: Copy, copies: [][2]string{{src1, dst1}}, mkdirs: []string{bucket}},
		{name: "move", method: Move, renames: [][2]string{{src1, dst1}}, mkdirs: []string{bucket}},
		{
			name: "move and delete", method: MoveAndDelete,
			renames: [][2]string{{src1, dst1}}, removes: []string{src2}, mkdirs: []string{bucket},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newRecordingFS(target, src1, src2)
			list := testList(fileItem(src1, 0, true), fileItem(src2, 0, false))

			res, _ := runSieve(t, context.Background(), Config{
				List: list, Target: target, Method: tt.method, DirectoryNames: YearAndMonth, FS: fs,
			})
			require.NoError(t, res.Err)
			assert.Zero(t, res.Failed)
			assert.Equal(t, tt.copies, fs.copies)
			assert.Equal(t, tt.renames, fs.renames)
			assert.Equal(t, tt.removes, fs.removes)
			assert.Equal(t, tt.mkdirs, fs.mkdirs)
		})
	}
}

func TestSieveCreatesTargetRoot(t *testing.T) {
	fs := newRecordingFS("a.jpg")
	res, events := runSieve(t, context.Background(), Config{
		List: testList(fileItem("a.jpg", 0, true)), Target: "out", Method: Copy, FS: fs,
	})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"out", filepath.Join("out", "1970-01")}, fs.mkdirs)
	assert.Equal(t, int64(2), res.Stats.DirsCreated)
	assert.Equal(t, []string{
		"Sieving 1 items into out",
		"Create out",
		"Create " + filepath.Join("out", "1970-01"),
		"a.jpg -> " + filepath.Join("out", "1970-01", "a.jpg"),
		"Done",
	}, lines(events))
}

func TestSieveDirectoryCreatedOnce(t *testing.T) {
	fs := newRecordingFS("t", "a.jpg", "b.jpg")
	fs.files["b.jpg"] = "other"
	_, _ = runSieve(t, context.Background(), Config{
		List:   testList(fileItem("a.jpg", 0, true), fileItem("b.jpg", 60, true)),
		Target: "t", Method: Copy, FS: fs,
	})
	assert.Equal(t, []string{filepath.Join("t", "1970-01")}, fs.mkdirs)
}

func TestSieveErrorsContinueBatch(t *testing.T) {
	fs := newRecordingFS("x.jpg", "y.jpg")
	fs.removeErr["x.jpg"] = errors.New("permission denied")

	res, events := runSieve(t, context.Background(), Config{
		List:   testList(fileItem("x.jpg", 0, false), fileItem("y.jpg", 0, false)),
		Method: Delete, FS: fs,
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"y.jpg"}, fs.removes)
	assert.Equal(t, []string{
		"Sieving 2 items into ",
		"Error deleting x.jpg: permission denied",
		"Delete y.jpg",
		"Done",
	}, lines(events))
	assert.True(t, events[1].IsError())
}

func TestSieveMkdirFailureSkipsItem(t *testing.T) {
	fs := newRecordingFS("target", "keep.jpg", "drop.jpg")
	fs.mkdirErr = errors.New("read-only file system")

	res, events := runSieve(t, context.Background(), Config{
		List:   testList(fileItem("keep.jpg", 0, true), fileItem("drop.jpg", 0, false)),
		Target: "target", Method: MoveAndDelete, FS: fs,
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, fs.renames)
	assert.Equal(t, []string{"drop.jpg"}, fs.removes)
	assert.Contains(t, lines(events),
		"Error creating directory "+filepath.Join("target", "1970-01")+": read-only file system")
}

func TestSieveMoveFallsBackToCopy(t *testing.T) {
	fs := newRecordingFS("t", "a.jpg")
	fs.renameErr = errors.New("invalid cross-device link")

	res, events := runSieve(t, context.Background(), Config{
		List: testList(fileItem("a.jpg", 0, true)), Target: "t", Method: Move, FS: fs,
	})
	require.NoError(t, res.Err)
	dst := filepath.Join("t", "1970-01", "a.jpg")
	assert.Equal(t, [][2]string{{"a.jpg", dst}}, fs.copies)
	assert.Equal(t, []string{"a.jpg"}, fs.removes)
	assert.Equal(t, event.FileMoved, events[len(events)-2].Type)
	assert.Equal(t, int64(1), res.Stats.FilesMoved)
}

func TestSieveRenameReportsSize(t *testing.T) {
	fs := newRecordingFS("t")
	fs.files["a.jpg"] = "hello"

	res, events := runSieve(t, context.Background(), Config{
		List: testList(fileItem("a.jpg", 0, true)), Target: "t", Method: Move, FS: fs,
	})
	require.NoError(t, res.Err)
	require.Len(t, fs.renames, 1)
	moved := events[len(events)-2]
	assert.Equal(t, event.FileMoved, moved.Type)
	assert.Equal(t, int64(5), moved.Size)
	assert.Equal(t, int64(5), res.Stats.BytesCopied)
}

func TestSieveEventFolders(t *testing.T) {
	fs := newRecordingFS("t", "party.jpg", "other.jpg")
	list := testList(
		fileItem("party.jpg", time.Date(2021, 9, 14, 20, 0, 0, 0, time.UTC).Unix(), true),
		fileItem("other.jpg", time.Date(2021, 9, 13, 23, 59, 0, 0, time.UTC).Unix(), true),
	)
	ev, err := item.NewEvent("Test1", "2021-09-14", "")
	require.NoError(t, err)
	list.AddEvent(ev)

	_, _ = runSieve(t, context.Background(), Config{List: list, Target: "t", Method: Copy, FS: fs})
	assert.Equal(t, [][2]string{
		{"party.jpg", filepath.Join("t", "2021-09-14 Test1", "party.jpg")},
		{"other.jpg", filepath.Join("t", "2021-09", "other.jpg")},
	}, fs.copies)
}

func TestSieveCanceled(t *testing.T) {
	fs := newRecordingFS("t", "a.jpg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, events := runSieve(t, ctx, Config{
		List: testList(fileItem("a.jpg", 0, true)), Target: "t", Method: Copy, FS: fs,
	})
	require.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, fs.copies)
	assert.Equal(t, []string{"Sieving 1 items into t", "Done"}, lines(events))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCollisionSafeMoveDifferentFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "img.jpg")
	b := filepath.Join(dir, "b", "img.jpg")
	writeFile(t, a, "first")
	writeFile(t, b, "second")
	target := filepath.Join(dir, "out")

	res, _ := runSieve(t, context.Background(), Config{
		List:   testList(fileItem(a, 0, true), fileItem(b, 0, true)),
		Target: target, Method: Move,
	})
	require.NoError(t, res.Err)
	assert.Zero(t, res.Failed)

	bucket := filepath.Join(target, "1970-01")
	assert.Equal(t, "first", readFile(t, filepath.Join(bucket, "img.jpg")))
	assert.Equal(t, "second", readFile(t, filepath.Join(bucket, "img_.jpg")))
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
}

func TestCollisionSafeMoveIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "img.jpg")
	b := filepath.Join(dir, "b", "img.jpg")
	writeFile(t, a, "same")
	writeFile(t, b, "same")
	target := filepath.Join(dir, "out")

	res, events := runSieve(t, context.Background(), Config{
		List:   testList(fileItem(a, 0, true), fileItem(b, 0, true)),
		Target: target, Method: Move,
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, int64(1), res.Stats.Duplicates)

	var failed []event.Event
	for _, ev := range events {
		if ev.IsError() {
			failed = append(failed, ev)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, b, failed[0].Path)
	require.ErrorIs(t, failed[0].Error, ErrDestinationExists)

	assert.FileExists(t, b, "identical source stays in place")
	assert.NoFileExists(t, filepath.Join(target, "1970-01", "img_.jpg"))
}

func TestCopyPreservesSourceAndVerifies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "img.jpg")
	writeFile(t, src, "pixels")
	mtime := time.Date(2019, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))
	target := filepath.Join(dir, "out")

	collector := stats.NewCollector()
	res, events := runSieve(t, context.Background(), Config{
		List:   testList(fileItem(src, mtime.Unix(), true)),
		Target: target, Method: Copy, Verify: true, Stats: collector, BWLimit: 1 << 20,
	})
	require.NoError(t, res.Err)

	dst := filepath.Join(target, "2019-05", "img.jpg")
	assert.Equal(t, "pixels", readFile(t, dst))
	assert.FileExists(t, src)
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	assert.Equal(t, int64(1), res.Stats.FilesVerified)
	assert.Equal(t, int64(6), res.Stats.BytesCopied)
	assert.Equal(t, src+" -> "+dst, events[len(events)-2].String())

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.jpg")
	drop := filepath.Join(dir, "drop.jpg")
	writeFile(t, keep, "k")
	writeFile(t, drop, "d")
	target := filepath.Join(dir, "out")

	res, events := runSieve(t, context.Background(), Config{
		List:   testList(fileItem(keep, 0, true), fileItem(drop, 0, false)),
		Target: target, Method: MoveAndDelete, DryRun: true,
	})
	require.NoError(t, res.Err)
	assert.NoDirExists(t, target)
	assert.FileExists(t, keep)
	assert.FileExists(t, drop)
	assert.Equal(t, []string{
		"Sieving 2 items into " + target,
		"Create " + target,
		"Create " + filepath.Join(target, "1970-01"),
		keep + " -> " + filepath.Join(target, "1970-01", "keep.jpg"),
		"Delete " + drop,
		"Done",
	}, lines(events))
}

func TestDisambiguate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"dir/a.jpg", "dir/a_.jpg"},
		{"dir/a_.jpg", "dir/a__.jpg"},
		{"dir/noext", "dir/noext_"},
		{"dir/.hidden", "dir/.hidden_"},
		{"a.tar.gz", "a.tar_.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), disambiguate(filepath.FromSlash(tt.in)), tt.in)
	}
}

func TestResolveTargetChainsSuffixes(t *testing.T) {
	fs := newRecordingFS("d/a.jpg", "d/a_.jpg")
	fs.files["src.jpg"] = "new"
	fs.files["d/a.jpg"] = "one"
	fs.files["d/a_.jpg"] = "two"

	got, err := resolveTarget(fs, "src.jpg", "d/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "d/a__.jpg", got)

	fs.files["d/a_.jpg"] = "new"
	_, err = resolveTarget(fs, "src.jpg", "d/a.jpg")
	require.ErrorIs(t, err, ErrDestinationExists)
}

func TestMethodAndLayoutNames(t *testing.T) {
	for _, m := range []Method{Copy, Move, MoveAndDelete, Delete} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseMethod("Move_And_Delete")
	require.NoError(t, err)
	assert.Equal(t, MoveAndDelete, m)
	_, err = ParseMethod("shred")
	require.Error(t, err)

	for d := YearAndMonth; d <= YearAndMonthInSubdirectory; d++ {
		got, err := ParseDirectoryNames(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err = ParseDirectoryNames("decade")
	require.Error(t, err)
}
