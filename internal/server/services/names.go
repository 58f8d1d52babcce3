package services

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
)

// MaxNameLength is the longest username accepted, in runes.
const MaxNameLength = 32

// invisible holds code points that render as nothing or reorder text.
// They are dropped from usernames so two names cannot look identical.
var invisible = map[rune]struct{}{
	0x0009: {}, 0x00AD: {}, 0x034F: {}, 0x061C: {}, 0x115F: {}, 0x1160: {},
	0x17B4: {}, 0x17B5: {}, 0x180E: {}, 0x2000: {}, 0x2001: {}, 0x2002: {},
	0x2003: {}, 0x2004: {}, 0x2005: {}, 0x2006: {}, 0x2007: {}, 0x2008: {},
	0x2009: {}, 0x200A: {}, 0x200B: {}, 0x200C: {}, 0x200D: {}, 0x200E: {},
	0x200F: {}, 0x202E: {}, 0x202F: {}, 0x205F: {}, 0x2060: {}, 0x2061: {},
	0x2062: {}, 0x2063: {}, 0x2064: {}, 0x206A: {}, 0x206B: {}, 0x206C: {},
	0x206D: {}, 0x206E: {}, 0x206F: {}, 0x2800: {}, 0x3000: {}, 0x3164: {},
	0xFEFF: {}, 0xFFA0: {}, 0x1D159: {}, 0x1D173: {}, 0x1D174: {}, 0x1D175: {},
	0x1D176: {}, 0x1D177: {}, 0x1D178: {}, 0x1D179: {}, 0x1D17A: {},
}

// CleanUsername strips invisible code points and surrounding spaces. An
// empty result or one longer than MaxNameLength is a bad request.
func CleanUsername(name string) (string, error) {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		if _, ok := invisible[r]; ok {
			return -1
		}
		return r
	}, name))

	if cleaned == "" || utf8.RuneCountInString(cleaned) > MaxNameLength {
		return "", common.ErrorBadRequest
	}
	return cleaned, nil
}

// requireName rejects empty group, channel and thread names.
func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.ErrorBadRequest
	}
	return nil
}
