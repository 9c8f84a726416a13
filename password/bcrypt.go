package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt defines a public type used by goCred APIs.
//
// Bcrypt instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Bcrypt struct {
	logRounds int
}

// NewBcrypt describes the newbcrypt operation and its observable behavior.
//
// NewBcrypt may return an error when input validation, dependency calls, or security checks fail.
// NewBcrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewBcrypt(logRounds int) (*Bcrypt, error) {
	if logRounds < bcrypt.MinCost || logRounds > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt log rounds %d must be in [%d, %d]", logRounds, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Bcrypt{logRounds: logRounds}, nil
}

// LogRounds describes the logrounds operation and its observable behavior.
//
// LogRounds may return an error when input validation, dependency calls, or security checks fail.
// LogRounds does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) LogRounds() int {
	return b.logRounds
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) Hash(password string) (string, error) {
	// bcrypt salts internally; callers never manage salts for this family.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.logRounds)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) Verify(password string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// NeedsRehash describes the needsrehash operation and its observable behavior.
//
// NeedsRehash may return an error when input validation, dependency calls, or security checks fail.
// NeedsRehash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Bcrypt) NeedsRehash(hash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, err
	}

	return cost != b.logRounds, nil
}
