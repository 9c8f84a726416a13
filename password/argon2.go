package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	variantIDName = "argon2id"
	variantIName  = "argon2i"
	variantDName  = "argon2d"
)

type argon2Variant int

const (
	variantArgon2id argon2Variant = iota
	variantArgon2i
	variantArgon2d
)

// Argon2Config defines a public type used by goCred APIs.
//
// Argon2Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Argon2Config struct {
	MemoryKB    uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 defines a public type used by goCred APIs.
//
// Argon2 instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Argon2 struct {
	config Argon2Config
}

type parsedPHC struct {
	variant     argon2Variant
	memoryKB    uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	digest      []byte
	keyLength   uint32
}

// NewArgon2 describes the newargon2 operation and its observable behavior.
//
// NewArgon2 may return an error when input validation, dependency calls, or security checks fail.
// NewArgon2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	if err := validateArgon2Config(cfg); err != nil {
		return nil, err
	}

	return &Argon2{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Hash(password string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	digest := argon2.IDKey(
		[]byte(password),
		salt,
		a.config.Iterations,
		a.config.MemoryKB,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		variantIDName,
		argon2.Version,
		a.config.MemoryKB,
		a.config.Iterations,
		a.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Verify(password string, encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}
	if parsed.variant == variantArgon2d {
		return false, errors.New("argon2d verification is not supported")
	}

	// Cost parameters come from the encoded hash, never from a.config, so
	// hashes produced elsewhere under different tuning still verify.
	computed := deriveKey(password, parsed)

	return subtle.ConstantTimeCompare(computed, parsed.digest) == 1, nil
}

// NeedsRehash describes the needsrehash operation and its observable behavior.
//
// NeedsRehash may return an error when input validation, dependency calls, or security checks fail.
// NeedsRehash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) NeedsRehash(encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	if parsed.variant != variantArgon2id {
		return true, nil
	}
	if a.config.MemoryKB > parsed.memoryKB {
		return true, nil
	}
	if a.config.Iterations > parsed.iterations {
		return true, nil
	}
	if a.config.Parallelism > parsed.parallelism {
		return true, nil
	}
	if a.config.KeyLength != parsed.keyLength {
		return true, nil
	}

	return false, nil
}

func deriveKey(password string, parsed *parsedPHC) []byte {
	if parsed.variant == variantArgon2i {
		return argon2.Key(
			[]byte(password),
			parsed.salt,
			parsed.iterations,
			parsed.memoryKB,
			parsed.parallelism,
			parsed.keyLength,
		)
	}

	return argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.iterations,
		parsed.memoryKB,
		parsed.parallelism,
		parsed.keyLength,
	)
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}

	var variant argon2Variant
	switch parts[1] {
	case variantIDName:
		variant = variantArgon2id
	case variantIName:
		variant = variantArgon2i
	case variantDName:
		variant = variantArgon2d
	default:
		return nil, errors.New("unrecognized argon2 variant")
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, errors.New("missing argon2 version")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(salt) == 0 {
		return nil, errors.New("empty salt")
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(digest) == 0 {
		return nil, errors.New("empty hash")
	}

	return &parsedPHC{
		variant:     variant,
		memoryKB:    params.memoryKB,
		iterations:  params.iterations,
		parallelism: params.parallelism,
		salt:        salt,
		digest:      digest,
		keyLength:   uint32(len(digest)),
	}, nil
}

type parsedParams struct {
	memoryKB    uint32
	iterations  uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, errors.New("invalid parameter format")
	}

	var (
		memorySet, iterationsSet, parallelismSet bool
		params                                   parsedParams
	)

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, errors.New("invalid parameter entry")
		}

		// Structural validity only. Cost floors are a hashing policy and
		// must not reject externally produced hashes on the verify path.
		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v == 0 {
				return nil, errors.New("invalid memory parameter")
			}
			params.memoryKB = uint32(v)
			memorySet = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v == 0 {
				return nil, errors.New("invalid iterations parameter")
			}
			params.iterations = uint32(v)
			iterationsSet = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v == 0 {
				return nil, errors.New("invalid parallelism parameter")
			}
			params.parallelism = uint8(v)
			parallelismSet = true
		default:
			return nil, errors.New("unsupported parameter")
		}
	}

	if !memorySet || !iterationsSet || !parallelismSet {
		return nil, errors.New("missing parameters")
	}

	return &params, nil
}

func validateArgon2Config(cfg Argon2Config) error {
	if cfg.MemoryKB == 0 {
		return errors.New("argon2 memory must be > 0")
	}
	if cfg.Iterations == 0 {
		return errors.New("argon2 iterations must be > 0")
	}
	if cfg.Parallelism == 0 {
		return errors.New("argon2 parallelism must be > 0")
	}
	if cfg.SaltLength == 0 {
		return errors.New("argon2 salt length must be > 0")
	}
	if cfg.KeyLength == 0 {
		return errors.New("argon2 key length must be > 0")
	}

	return nil
}
