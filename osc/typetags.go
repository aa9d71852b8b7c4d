package osc

import "fmt"

type TypeTag rune

const (
	TypeString  TypeTag = 's'
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeInvalid TypeTag = 0
)

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch arg.(type) {
	case int32:
		return TypeInt32
	case float32:
		return TypeFloat32
	case string:
		return TypeString
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string for the given arguments,
// including the leading ','.
func GetTypeTag(args []interface{}) (string, error) {
	tt := make([]byte, 1, len(args)+1)
	tt[0] = ','
	for _, arg := range args {
		s := ToTypeTag(arg)
		if s == TypeInvalid {
			return "", fmt.Errorf("GetTypeTag: unsupported type: %T", arg)
		}
		tt = append(tt, byte(s))
	}
	return string(tt), nil
}
