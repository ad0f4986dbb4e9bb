package utils

import (
	"github.com/segmentio/ksuid"
)

func GenKSUID() string {
	return ksuid.New().String()
}

// IsKSUID reports whether s parses as a ksuid.
func IsKSUID(s string) bool {
	_, err := ksuid.Parse(s)
	return err == nil
}
