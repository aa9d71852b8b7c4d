package osc

type testCase struct {
	name    string
	obj     *Message
	raw     []byte
	wantErr bool
}

// raw concatenates byte fragments into one datagram.
func raw(parts ...string) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

var messageTestCases = []testCase{
	{
		"no_args",
		&Message{Address: "/obs/go", Arguments: []interface{}{}},
		raw("/obs/go\x00", ",\x00\x00\x00"),
		false,
	},
	{
		"int32",
		&Message{Address: "/a", Arguments: []interface{}{int32(42)}},
		raw("/a\x00\x00", ",i\x00\x00", "\x00\x00\x00\x2a"),
		false,
	},
	{
		"float32",
		&Message{Address: "/a", Arguments: []interface{}{float32(1)}},
		raw("/a\x00\x00", ",f\x00\x00", "\x3f\x80\x00\x00"),
		false,
	},
	{
		"string",
		&Message{Address: "/a", Arguments: []interface{}{"hey"}},
		raw("/a\x00\x00", ",s\x00\x00", "hey\x00"),
		false,
	},
	{
		"mixed",
		&Message{Address: "/obs/scene/1/go", Arguments: []interface{}{int32(-1), float32(0.5), "abcd"}},
		raw("/obs/scene/1/go\x00", ",ifs\x00\x00\x00\x00", "\xff\xff\xff\xff", "\x3f\x00\x00\x00", "abcd\x00\x00\x00\x00"),
		false,
	},
}
