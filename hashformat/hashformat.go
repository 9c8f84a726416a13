package hashformat

import "strings"

// Family is the closed set of algorithm families a hash prefix can resolve
// to. The zero value is FamilyUnrecognized.
type Family int

const (
	FamilyUnrecognized Family = iota
	FamilyBcrypt
	FamilyArgon2id
	FamilyArgon2i
	FamilyArgon2d
)

const (
	prefixBcrypt2a = "$2a"
	prefixBcrypt2b = "$2b"
	prefixBcrypt2x = "$2x"
	prefixBcrypt2y = "$2y"

	prefixArgon2id = "$argon2id"
	prefixArgon2i  = "$argon2i"
	prefixArgon2d  = "$argon2d"
)

// String returns the family name used in audit metadata and error messages.
func (f Family) String() string {
	switch f {
	case FamilyBcrypt:
		return "bcrypt"
	case FamilyArgon2id:
		return "argon2id"
	case FamilyArgon2i:
		return "argon2i"
	case FamilyArgon2d:
		return "argon2d"
	default:
		return "unrecognized"
	}
}

// Detect classifies hash into exactly one Family. The $argon2id prefix is
// tested before $argon2i so the longer identifier wins.
func Detect(hash string) Family {
	switch {
	case strings.HasPrefix(hash, prefixArgon2id):
		return FamilyArgon2id
	case strings.HasPrefix(hash, prefixArgon2i):
		return FamilyArgon2i
	case strings.HasPrefix(hash, prefixArgon2d):
		return FamilyArgon2d
	case strings.HasPrefix(hash, prefixBcrypt2a),
		strings.HasPrefix(hash, prefixBcrypt2b),
		strings.HasPrefix(hash, prefixBcrypt2x),
		strings.HasPrefix(hash, prefixBcrypt2y):
		return FamilyBcrypt
	default:
		return FamilyUnrecognized
	}
}

// IsBcryptFormat reports whether hash begins with a recognized bcrypt
// identifier.
func IsBcryptFormat(hash string) bool {
	return Detect(hash) == FamilyBcrypt
}

// IsArgon2Format reports whether hash begins with a recognized Argon2
// variant identifier.
func IsArgon2Format(hash string) bool {
	switch Detect(hash) {
	case FamilyArgon2id, FamilyArgon2i, FamilyArgon2d:
		return true
	default:
		return false
	}
}

// IsSupportedFormat reports whether hash belongs to any recognized family.
func IsSupportedFormat(hash string) bool {
	return Detect(hash) != FamilyUnrecognized
}

// NormalizeBcryptIdentifier rewrites a $2b, $2x, or $2y identifier to $2a,
// leaving the salt and digest untouched. The bcrypt verification primitive
// only accepts the $2a identifier; the variants are structurally identical.
// Hashes that do not carry one of the three variant prefixes are returned
// unchanged.
func NormalizeBcryptIdentifier(hash string) string {
	if strings.HasPrefix(hash, prefixBcrypt2b) ||
		strings.HasPrefix(hash, prefixBcrypt2x) ||
		strings.HasPrefix(hash, prefixBcrypt2y) {
		return prefixBcrypt2a + hash[len(prefixBcrypt2a):]
	}
	return hash
}
