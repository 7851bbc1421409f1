package clients

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName — content-subtype вызовов к бэкенду контента:
// application/grpc+json.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec — gRPC-кодек поверх encoding/json.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }
