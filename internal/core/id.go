package core

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewUploadName prefixes the client's base file name with a time-ordered UUID
// so stored uploads never collide.
func NewUploadName(original string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == ':' || r < 0x20:
			return '_'
		case r == ' ':
			return '-'
		}
		return r
	}, base)
	if base == "." || base == "" || base == "/" {
		return id.String()
	}
	return id.String() + "-" + base
}
