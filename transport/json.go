package transport

import (
	jsoniter "github.com/json-iterator/go"
)

// json is the wire codec for every exchange with a tool server.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawMessage aliases the codec's raw type so wire structs stay decodable in
// two phases (envelope first, result second).
type RawMessage = jsoniter.RawMessage
