package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// CBOR stores items as CBOR (RFC 8949). Build it with NewCBOR or MustCBOR;
// the zero value has no encoder.
//
// In deterministic mode two commits of the same buffer give byte-identical
// cache files. Times are written as RFC3339Nano strings and untyped maps
// decode as map[string]any, so records also read cleanly with
// `silkcache dump --codec cbor`.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	dm, err := DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR panics where NewCBOR would fail.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

// DecMode is the decoder every CBOR codec uses: duplicate map keys are
// rejected and maps inside interface values decode with string keys.
func DecMode() (cbor.DecMode, error) {
	return cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
}

func (c CBOR[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
