package score

import (
	"strconv"
	"strings"
)

// Codec converts a leaderboard to and from its stored string.
type Codec interface {
	Encode(entries []Entry) string
	Decode(s string) []Entry
}

// LegacyCodec is the original flat format: "score,time,misses;score,time,misses".
type LegacyCodec struct{}

// Encode joins the entries; an empty list encodes to "".
func (LegacyCodec) Encode(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(';')
		}
		writeFields(&b, e)
	}
	return b.String()
}

// Decode parses records, silently skipping any that are malformed.
func (LegacyCodec) Decode(s string) []Entry {
	if s == "" {
		return nil
	}
	var entries []Entry
	for _, rec := range strings.Split(s, ";") {
		if e, ok := parseFields(rec); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// versionPrefix marks the length-prefixed format.
const versionPrefix = "v2|"

// VersionedCodec writes "v2|" followed by records of the form "<len>:<score>,<time>,<misses>".
// The length prefix lets a reader skip a corrupt record without losing the rest.
// Decoding also accepts the legacy format.
type VersionedCodec struct{}

// Encode writes the versioned form; an empty list encodes to "".
func (VersionedCodec) Encode(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	var rec strings.Builder
	b.WriteString(versionPrefix)
	for _, e := range entries {
		rec.Reset()
		writeFields(&rec, e)
		b.WriteString(strconv.Itoa(rec.Len()))
		b.WriteByte(':')
		b.WriteString(rec.String())
	}
	return b.String()
}

// Decode reads either format. In the versioned form a record with bad fields is
// skipped; a broken length prefix ends decoding, keeping what was read so far.
func (VersionedCodec) Decode(s string) []Entry {
	body, ok := strings.CutPrefix(s, versionPrefix)
	if !ok {
		return LegacyCodec{}.Decode(s)
	}

	var entries []Entry
	for body != "" {
		n, rest, ok := strings.Cut(body, ":")
		if !ok {
			break
		}
		size, err := strconv.Atoi(n)
		if err != nil || size < 0 || size > len(rest) {
			break
		}
		if e, ok := parseFields(rest[:size]); ok {
			entries = append(entries, e)
		}
		body = rest[size:]
	}
	return entries
}

// Decode reads a stored leaderboard in any supported format.
func Decode(s string) []Entry {
	return VersionedCodec{}.Decode(s)
}

// CodecFor returns the writer codec for a configured format name.
// Unknown names select the versioned codec.
func CodecFor(format string) Codec {
	if format == "legacy" {
		return LegacyCodec{}
	}
	return VersionedCodec{}
}

func writeFields(b *strings.Builder, e Entry) {
	b.WriteString(strconv.Itoa(e.Score))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(e.Time, 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(e.NearMisses))
}

// parseFields parses "score,time,misses". Anything else is rejected.
func parseFields(rec string) (Entry, bool) {
	parts := strings.Split(rec, ",")
	if len(parts) != 3 {
		return Entry{}, false
	}
	sc, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Entry{}, false
	}
	t, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Entry{}, false
	}
	nm, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Entry{}, false
	}
	return Entry{Score: sc, Time: t, NearMisses: nm}, true
}
