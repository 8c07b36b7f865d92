package score

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalScore(t *testing.T) {
	assert.Equal(t, 0, FinalScore(0, 0))
	assert.Equal(t, 125, FinalScore(12, 1))
	for s := int64(0); s < 200; s += 13 {
		for m := 0; m < 30; m += 7 {
			assert.Equal(t, int(s)*10+m*5, FinalScore(s, m))
		}
	}
}

func TestSubmitExampleSequence(t *testing.T) {
	store := NewStore(NewMemoryKV())

	var flags []bool
	for _, sc := range []int{100, 300, 50, 300, 400} {
		rec, err := store.Submit(sc, int64(sc/10), 0)
		require.NoError(t, err)
		flags = append(flags, rec)
	}

	assert.Equal(t, []bool{true, true, false, false, true}, flags)

	var got []int
	for _, e := range store.Load() {
		got = append(got, e.Score)
	}
	assert.Equal(t, []int{400, 300, 300, 100, 50}, got)
}

func TestSubmitTieKeepsInsertionOrder(t *testing.T) {
	store := NewStore(NewMemoryKV())
	_, err := store.Submit(300, 1, 0)
	require.NoError(t, err)
	_, err = store.Submit(300, 2, 0)
	require.NoError(t, err)

	entries := store.Load()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Time)
	assert.Equal(t, int64(2), entries[1].Time)
}

func TestSubmitCapsAndSorts(t *testing.T) {
	store := NewStore(NewMemoryKV())
	for i, sc := range []int{5, 80, 20, 95, 10, 60, 70, 30, 15, 45, 90, 1, 55, 85} {
		_, err := store.Submit(sc, int64(i), i)
		require.NoError(t, err)

		entries := store.Load()
		assert.LessOrEqual(t, len(entries), 10)
		assert.True(t, slices.IsSortedFunc(entries, func(a, b Entry) int { return b.Score - a.Score }))
	}

	entries := store.Load()
	require.Len(t, entries, 10)
	assert.Equal(t, 95, entries[0].Score)
	assert.Equal(t, 20, entries[9].Score)
}

func TestRecordAndBest(t *testing.T) {
	store := NewStore(NewMemoryKV())

	_, ok := store.Best()
	assert.False(t, ok)

	res, err := store.Record(12, 3)
	require.NoError(t, err)
	assert.True(t, res.NewRecord)
	assert.Equal(t, Entry{Score: 135, Time: 12, NearMisses: 3}, res.Entry)

	res, err = store.Record(1, 0)
	require.NoError(t, err)
	assert.False(t, res.NewRecord)

	best, ok := store.Best()
	require.True(t, ok)
	assert.Equal(t, 135, best.Score)
}

func TestClear(t *testing.T) {
	store := NewStore(NewMemoryKV())
	_, err := store.Submit(10, 1, 0)
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Load())

	rec, err := store.Submit(1, 0, 0)
	require.NoError(t, err)
	assert.True(t, rec, "first entry after clear is a record")
}

type failingKV struct {
	getErr, setErr error
}

func (f failingKV) Get(string) (string, error) { return "", f.getErr }
func (f failingKV) Set(string, string) error   { return f.setErr }
func (f failingKV) Delete(string) error        { return f.setErr }

func TestStorageErrors(t *testing.T) {
	boom := errors.New("disk gone")

	store := NewStore(failingKV{getErr: boom})
	assert.Empty(t, store.Load())

	store = NewStore(failingKV{setErr: boom})
	rec, err := store.Submit(10, 1, 0)
	assert.True(t, rec)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Clear(), boom)
}

func TestRawKeepsStoredFormat(t *testing.T) {
	kv := NewMemoryKV()
	legacy := "400,40,0;oops;135,12,3"
	require.NoError(t, kv.Set(ScoresKey, legacy))

	store := NewStore(kv)
	raw, err := store.Raw()
	require.NoError(t, err)
	assert.Equal(t, legacy, raw, "not re-encoded, malformed record kept")
	assert.Len(t, store.Load(), 2)

	_, err = NewStore(failingKV{getErr: errors.New("disk gone")}).Raw()
	assert.Error(t, err)
}

func TestLegacyCodec(t *testing.T) {
	entries := []Entry{{400, 40, 0}, {135, 12, 3}}
	raw := LegacyCodec{}.Encode(entries)
	assert.Equal(t, "400,40,0;135,12,3", raw)
	assert.Equal(t, entries, LegacyCodec{}.Decode(raw))
	assert.Empty(t, LegacyCodec{}.Encode(nil))
	assert.Empty(t, LegacyCodec{}.Decode(""))
}

func TestLegacyCodecSkipsMalformed(t *testing.T) {
	raw := "400,40,0;garbage;1,2;300,x,1;;200,20,0,9;135,12,3"
	assert.Equal(t, []Entry{{400, 40, 0}, {135, 12, 3}}, LegacyCodec{}.Decode(raw))
}

func TestVersionedCodec(t *testing.T) {
	entries := []Entry{{400, 40, 0}, {135, 12, 3}}
	raw := VersionedCodec{}.Encode(entries)
	assert.Equal(t, "v2|8:400,40,08:135,12,3", raw)
	assert.Equal(t, entries, VersionedCodec{}.Decode(raw))
	assert.Empty(t, VersionedCodec{}.Encode(nil))
}

func TestVersionedCodecLenient(t *testing.T) {
	// Second record has bad fields but valid framing; the third survives.
	raw := "v2|8:400,40,05:a,b,c8:135,12,3"
	assert.Equal(t, []Entry{{400, 40, 0}, {135, 12, 3}}, Decode(raw))

	// A broken length keeps what was read before it.
	raw = "v2|8:400,40,0zz:135,12,3"
	assert.Equal(t, []Entry{{400, 40, 0}}, Decode(raw))

	raw = "v2|99:400,40,0"
	assert.Empty(t, Decode(raw))
}

func TestDecodeReadsLegacy(t *testing.T) {
	assert.Equal(t, []Entry{{50, 5, 0}}, Decode("50,5,0"))
}

func TestCodecFor(t *testing.T) {
	assert.IsType(t, LegacyCodec{}, CodecFor("legacy"))
	assert.IsType(t, VersionedCodec{}, CodecFor("versioned"))
	assert.IsType(t, VersionedCodec{}, CodecFor(""))
}

func TestStoreMigratesLegacyOnWrite(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ScoresKey, "300,30,0;100,10,0"))

	store := NewStore(kv)
	_, err := store.Submit(200, 20, 0)
	require.NoError(t, err)

	raw, err := kv.Get(ScoresKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "v2|"))
	assert.Len(t, store.Load(), 3)

	legacy := NewStore(kv, WithCodec(LegacyCodec{}))
	_, err = legacy.Submit(10, 1, 0)
	require.NoError(t, err)
	raw, err = kv.Get(ScoresKey)
	require.NoError(t, err)
	assert.Equal(t, "300,30,0;200,20,0;100,10,0;10,1,0", raw)
}

func TestIniKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.ini")
	kv := NewIniKV(path, "")

	v, err := kv.Get(ScoresKey)
	require.NoError(t, err)
	assert.Empty(t, v, "missing file reads as empty")

	store := NewStore(kv, WithCodec(LegacyCodec{}))
	_, err = store.Submit(400, 40, 0)
	require.NoError(t, err)
	_, err = store.Submit(135, 12, 3)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[NovaRushScores]")
	assert.Contains(t, string(data), "400,40,0;135,12,3")

	// A second handle on the same file sees the data.
	other := NewStore(NewIniKV(path, PrefsName))
	assert.Equal(t, []Entry{{400, 40, 0}, {135, 12, 3}}, other.Load())

	require.NoError(t, other.Clear())
	assert.Empty(t, store.Load())
	require.NoError(t, other.Clear(), "clearing twice is fine")
}

func TestKVRejectsEmptyKey(t *testing.T) {
	for _, kv := range []KV{NewMemoryKV(), NewIniKV(filepath.Join(t.TempDir(), "s.ini"), "")} {
		_, err := kv.Get("")
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, kv.Set("", "x"), ErrEmptyKey)
		assert.ErrorIs(t, kv.Delete(""), ErrEmptyKey)
	}
}

func TestFormat(t *testing.T) {
	e := Entry{Score: 135, Time: 12, NearMisses: 3}
	assert.Equal(t, "🥇 Score: 135 | 12s | ⚠3", Format(0, e))
	assert.Equal(t, "🥉 Score: 135 | 12s | ⚠3", Format(2, e))
	assert.Equal(t, "4. Score: 135 | 12s | ⚠3", Format(3, e))
	assert.Equal(t, "10. ", Rank(9))
}

func TestResultLines(t *testing.T) {
	lines := Result{Entry: NewEntry(12, 3), NewRecord: true}.Lines()
	assert.Contains(t, lines, "Score: 135")
	assert.Contains(t, lines, "NEW HIGH SCORE!")

	lines = Result{Entry: NewEntry(1, 0)}.Lines()
	assert.NotContains(t, lines, "NEW HIGH SCORE!")
}
