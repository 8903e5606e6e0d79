// Package apiv1 は recruit.v1 の gRPC サービス定義とメッセージ型をまとめます。
// メッセージは JSON コーデック(content-subtype "json")で符号化されます。
package apiv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName は grpc.CallContentSubtype に渡すコーデック名です。
const CodecName = "json"

// Codec は encoding/json によるメッセージ符号化を行う gRPC コーデックです。
type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

// Marshal は v を JSON に符号化します。
func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec: marshal %T: %w", v, err)
	}
	return b, nil
}

// Unmarshal は JSON を v へ復号します。空のペイロードはゼロ値のメッセージとして扱います。
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: unmarshal %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string {
	return CodecName
}
