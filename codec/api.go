package codec

import (
	"bytes"
	"io"
	"reflect"
)

var (
	defaultEncoder = NewEncoder()
	defaultDecoder = NewDecoder()
)

// Serialize writes v to w under cfg.
func Serialize(w io.Writer, v any, cfg Config) error {
	return defaultEncoder.Encode(w, v, cfg)
}

// Deserialize reads from r into the value v points to.
func Deserialize(r io.Reader, v any, cfg Config) error {
	return defaultDecoder.Decode(r, v, cfg)
}

// Marshal encodes v to a byte slice. cfg defaults to Default.
func Marshal[T any](v T, cfg ...Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := defaultEncoder.Encode(&buf, &v, pick(cfg)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a T from data. Trailing bytes are ignored.
func Unmarshal[T any](data []byte, cfg ...Config) (T, error) {
	var v T
	err := defaultDecoder.Decode(bytes.NewReader(data), &v, pick(cfg))
	return v, err
}

// Compile returns the plan for t from the shared compiler. Compiling at
// startup surfaces tag errors before the first packet.
func Compile(t reflect.Type) (*Plan, error) {
	return defaultCompiler.Compile(t)
}

// Validate compiles the plan for T.
func Validate[T any]() error {
	_, err := defaultCompiler.Compile(reflect.TypeFor[T]())
	return err
}

func pick(cfg []Config) Config {
	if len(cfg) > 0 {
		return cfg[0]
	}
	return Default
}
