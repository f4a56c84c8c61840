package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type post struct {
	ID      string    `json:"id" msgpack:"id" cbor:"id"`
	Title   string    `json:"title" msgpack:"title" cbor:"title"`
	Tags    []string  `json:"tags" msgpack:"tags" cbor:"tags"`
	Created time.Time `json:"created" msgpack:"created" cbor:"created"`
}

func samplePost() *post {
	return &post{
		ID:      "p1",
		Title:   "Hello",
		Tags:    []string{"a", "b"},
		Created: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestCodecsRoundTripPointerItems(t *testing.T) {
	codecs := map[string]Codec[*post]{
		"json":      JSON[*post]{},
		"msgpack":   Msgpack[*post]{},
		"cbor":      MustCBOR[*post](false),
		"cbor_det":  MustCBOR[*post](true),
		"limit_big": LimitCodec[*post]{Inner: Msgpack[*post]{}, MaxDecode: 1 << 20},
	}
	in := samplePost()
	for name, c := range codecs {
		b, err := c.Encode(in)
		if err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		out, err := c.Decode(b)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if out == nil {
			t.Fatalf("%s: decoded nil pointer", name)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Fatalf("%s: round trip mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestDeterministicCBORIsStable(t *testing.T) {
	type withMap struct {
		M map[string]int `cbor:"m"`
	}
	c := MustCBOR[withMap](true)
	v := withMap{M: map[string]int{"z": 1, "a": 2, "m": 3, "q": 4}}
	first, err := c.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := c.Encode(v)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding differs on pass %d", i)
		}
	}
}

func TestLimitCodecRejectsOversizedPayload(t *testing.T) {
	c := LimitCodec[*post]{Inner: JSON[*post]{}, MaxDecode: 8}
	b, err := c.Encode(samplePost())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := c.Decode(b); err == nil || !strings.Contains(err.Error(), "payload too large") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestLimitCodecDisabled(t *testing.T) {
	c := LimitCodec[*post]{Inner: JSON[*post]{}}
	b, _ := c.Encode(samplePost())
	if _, err := c.Decode(b); err != nil {
		t.Fatalf("decode with limit disabled: %v", err)
	}
}

func TestProtobufRoundTrip(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	in := wrapperspb.String("cached")
	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !proto.Equal(in, out) {
		t.Fatalf("got %v want %v", out, in)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	garbage := []byte{0xc1} // reserved in both msgpack and as a lone byte invalid JSON
	if _, err := (Msgpack[*post]{}).Decode(garbage); err == nil {
		t.Fatalf("msgpack: expected error")
	}
	if _, err := (JSON[*post]{}).Decode(garbage); err == nil {
		t.Fatalf("json: expected error")
	}
}
