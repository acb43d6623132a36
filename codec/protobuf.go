package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *structpb.Struct { return &structpb.Struct{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtoDocument carries a Document as a google.protobuf.Struct, so any
// protobuf runtime can read stored arrays without a generated schema.
type ProtoDocument struct {
	msg Protobuf[*structpb.Struct]
}

var _ Codec[Document] = ProtoDocument{}

func NewProtoDocument() ProtoDocument {
	return ProtoDocument{msg: NewProtobuf(func() *structpb.Struct { return &structpb.Struct{} })}
}

func (c ProtoDocument) Encode(d Document) ([]byte, error) {
	fields := map[string]*structpb.Value{
		"kind":  structpb.NewStringValue(d.Kind),
		"shape": structpb.NewStringValue(d.Shape),
	}
	if d.Items != nil {
		fields["items"] = structpb.NewListValue(stringList(d.Items))
	}
	if d.Rows != nil {
		rows := &structpb.ListValue{Values: make([]*structpb.Value, len(d.Rows))}
		for i, r := range d.Rows {
			rows.Values[i] = structpb.NewListValue(stringList(r))
		}
		fields["rows"] = structpb.NewListValue(rows)
	}
	return c.msg.Encode(&structpb.Struct{Fields: fields})
}

func (c ProtoDocument) Decode(b []byte) (Document, error) {
	s, err := c.msg.Decode(b)
	if err != nil {
		return Document{}, err
	}
	var d Document
	for name, v := range s.GetFields() {
		switch name {
		case "kind":
			d.Kind, err = protoString(name, v)
		case "shape":
			d.Shape, err = protoString(name, v)
		case "items":
			d.Items, err = protoStrings(name, v)
		case "rows":
			lv, ok := v.GetKind().(*structpb.Value_ListValue)
			if !ok {
				return Document{}, fmt.Errorf("field %q is not a list", name)
			}
			d.Rows = make([][]string, len(lv.ListValue.GetValues()))
			for i, r := range lv.ListValue.GetValues() {
				if d.Rows[i], err = protoStrings(fmt.Sprintf("rows[%d]", i), r); err != nil {
					break
				}
			}
		default:
			err = fmt.Errorf("unknown field %q", name)
		}
		if err != nil {
			return Document{}, err
		}
	}
	return d, nil
}

func stringList(ss []string) *structpb.ListValue {
	lv := &structpb.ListValue{Values: make([]*structpb.Value, len(ss))}
	for i, s := range ss {
		lv.Values[i] = structpb.NewStringValue(s)
	}
	return lv
}

func protoString(name string, v *structpb.Value) (string, error) {
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", name)
	}
	return sv.StringValue, nil
}

func protoStrings(name string, v *structpb.Value) ([]string, error) {
	lv, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("field %q is not a list", name)
	}
	vals := lv.ListValue.GetValues()
	out := make([]string, len(vals))
	for i, e := range vals {
		s, err := protoString(fmt.Sprintf("%s[%d]", name, i), e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
