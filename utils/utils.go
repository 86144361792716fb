package utils

import (
	rndm "math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var digitRunes = []rune("0123456789")

// codeRunes excludes characters that are easy to confuse when a code
// is read aloud or copied by hand: 0/O and 1/I.
var codeRunes = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// CodePrefix tags every generated access code.
const CodePrefix = "KOB-"

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// GenerateAccessCode issues a human-shareable code: the constant prefix
// followed by 8 characters from the unambiguous alphabet. Codes are
// compared case-sensitively as generated.
func GenerateAccessCode() string {
	b := make([]rune, 8)
	for i := range b {
		b[i] = codeRunes[rndm.Intn(len(codeRunes))]
	}
	return CodePrefix + string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// --- Validation ---

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the same loose pattern the checkout form uses.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// --- Misc ---

func ContainsIgnoreCase(str, substr string) bool {
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}
