package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct encodes v, which must marshal to a JSON object, as a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := toMessage(v, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToList encodes v, which must marshal to a JSON array, as a ListValue.
func ToList(v any) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := toMessage(v, out); err != nil {
		return nil, err
	}
	return out, nil
}

func toMessage(v any, m proto.Message) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := protojson.Unmarshal(data, m); err != nil {
		return fmt.Errorf("converting payload: %w", err)
	}
	return nil
}

// FromMessage decodes a Struct or ListValue into v. Numbers decode as
// json.Number when v holds interface values, so integral ids stay integral.
func FromMessage(m proto.Message, v any) error {
	data, err := protojson.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
