package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"iter"

	"github.com/cespare/xxhash/v2"
)

const (
	version  byte = 1
	kindItem byte = 1

	headerLen = 4 + 1
	recordHdr = 1 + 4 + 8
)

var (
	ErrCorrupt = errors.New("silkcache: corrupt cache file")
	magic4     = [...]byte{'S', 'L', 'K', 'C'}
)

// Stream: magic(4) | ver(1) | record*
// Record: kind(1=item) | plen(u32 be) | xxhash64(payload)(u64 be) | payload(plen)
//
// There is no record count. A stream ends after the last complete record.

// Writer appends framed records to an in-memory stream.
type Writer struct {
	buf bytes.Buffer
	n   int
}

func NewWriter() *Writer {
	w := &Writer{}
	w.buf.Write(magic4[:])
	w.buf.WriteByte(version)
	return w
}

// Append frames payload as the next record.
func (w *Writer) Append(payload []byte) {
	var hdr [recordHdr]byte
	hdr[0] = kindItem
	binary.BigEndian.PutUint32(hdr[1:5], uint32(len(payload)))
	binary.BigEndian.PutUint64(hdr[5:13], xxhash.Sum64(payload))
	w.buf.Write(hdr[:])
	w.buf.Write(payload)
	w.n++
}

// Len reports how many records were appended.
func (w *Writer) Len() int { return w.n }

// Bytes returns the encoded stream. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Reader walks the records of an encoded stream.
type Reader struct {
	b   []byte
	off int
	err error
}

// NewReader validates the stream header. An empty input yields a reader
// that reports io.EOF immediately.
func NewReader(b []byte) *Reader {
	r := &Reader{b: b}
	if len(b) == 0 {
		return r
	}
	if len(b) < headerLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		r.err = ErrCorrupt
		return r
	}
	r.off = headerLen
	return r
}

// Next returns the next record payload. It returns io.EOF once the stream is
// exhausted on a record boundary and ErrCorrupt for anything malformed.
// The payload aliases the input.
func (r *Reader) Next() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.off >= len(r.b) {
		r.err = io.EOF
		return nil, r.err
	}
	if len(r.b)-r.off < recordHdr || r.b[r.off] != kindItem {
		r.err = ErrCorrupt
		return nil, r.err
	}
	plen := int(binary.BigEndian.Uint32(r.b[r.off+1 : r.off+5]))
	sum := binary.BigEndian.Uint64(r.b[r.off+5 : r.off+13])
	off := r.off + recordHdr
	if plen < 0 || plen > len(r.b)-off { // overflow-safe bound check
		r.err = ErrCorrupt
		return nil, r.err
	}
	payload := r.b[off : off+plen]
	if xxhash.Sum64(payload) != sum {
		r.err = ErrCorrupt
		return nil, r.err
	}
	r.off = off + plen
	return payload, nil
}

// Records yields every record payload of b in order. Iteration stops after the
// first error, which is yielded with a nil payload. Normal end of stream is not
// reported. Each range over the returned sequence starts from the beginning.
func Records(b []byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		r := NewReader(b)
		for {
			p, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}
