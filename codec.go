package formz

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec decodes raw source bytes into a value tree. Implement this interface
// to seed forms from formats beyond JSON and YAML.
type Codec interface {
	// Decode deserializes bytes into a value tree.
	Decode(data []byte, v *Values) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec decodes value trees from JSON.
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte, v *Values) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) ContentType() string {
	return "application/json"
}

var _ Codec = JSONCodec{}

// YAMLCodec decodes value trees from YAML, which also accepts plain JSON.
type YAMLCodec struct{}

func (YAMLCodec) Decode(data []byte, v *Values) error {
	return yaml.Unmarshal(data, v)
}

func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var _ Codec = YAMLCodec{}

// AutoCodec detects the format from content: a leading '{' or '[' selects
// JSON, anything else is parsed as YAML. This is the default codec.
type AutoCodec struct{}

func (AutoCodec) Decode(data []byte, v *Values) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func (AutoCodec) ContentType() string {
	return "application/octet-stream"
}

var _ Codec = AutoCodec{}

// decodeValues runs a codec and guarantees a non-nil tree on success.
func decodeValues(codec Codec, data []byte) (Values, error) {
	var v Values
	if err := codec.Decode(data, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = Values{}
	}
	return v, nil
}
