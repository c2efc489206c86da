package validation

import (
	"fmt"
	"strings"
)

// forbiddenKeyChars cannot appear in a Realtime Database key.
const forbiddenKeyChars = ".$#[]/"

// ValidateRecordKey checks that key can address a single child node.
func ValidateRecordKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("record key is empty")
	}
	if len(key) > 768 {
		return fmt.Errorf("record key exceeds 768 bytes")
	}
	if i := strings.IndexAny(key, forbiddenKeyChars); i >= 0 {
		return fmt.Errorf("record key contains forbidden character %q", key[i])
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("record key contains a control character")
		}
	}
	return nil
}
