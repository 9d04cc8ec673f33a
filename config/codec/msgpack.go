// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeMsgpack identifies MessagePack files (.msgpack, .mpk).
const TypeMsgpack Type = "msgpack"

func init() {
	Register(TypeMsgpack, MsgpackCodec{}, "msgpack", "mpk")
}

// MsgpackCodec encodes and decodes MessagePack. Struct fields are keyed by
// their json tags so the same types serve every format.
type MsgpackCodec struct{}

// Encode implements Encoder.
func (MsgpackCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode implements Decoder.
func (MsgpackCodec) Decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	return dec.Decode(v)
}
