package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrInvalidHex = errors.New("invalid hex")

// Encode returns the lowercase hex form of b, two digits per byte.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(s))
	} else if b, err := hex.DecodeString(s); err != nil {
		var e hex.InvalidByteError
		if errors.As(err, &e) {
			return nil, fmt.Errorf("%w: invalid character %q", ErrInvalidHex, byte(e))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	} else {
		return b, nil
	}
}
