package jsoncompat

type Decoder interface {
	Decode(v any) error
}

type Encoder interface {
	Encode(v any) error
}
