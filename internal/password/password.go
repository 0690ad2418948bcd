// Package password implements the one-way transform applied to account
// secrets. Hashing happens exactly once per plaintext write, at the call
// sites that replace the password field, never implicitly in storage hooks.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Params tune the argon2id cost. Zero values are replaced by Default.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// Default returns the production cost parameters.
func Default() Params {
	return Params{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
}

var ErrInvalidHash = errors.New("invalid password hash")

// Hasher produces and verifies argon2id hashes in the standard encoded form
// $argon2id$v=..$m=..,t=..,p=..$salt$hash.
type Hasher struct {
	params Params
}

// NewHasher builds a hasher with the given cost parameters.
func NewHasher(params Params) *Hasher {
	def := Default()
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.Memory == 0 {
		params.Memory = def.Memory
	}
	if params.Threads == 0 {
		params.Threads = def.Threads
	}
	if params.KeyLen == 0 {
		params.KeyLen = def.KeyLen
	}
	if params.SaltLen == 0 {
		params.SaltLen = def.SaltLen
	}
	return &Hasher{params: params}
}

// Hash returns the salted one-way hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether plaintext matches the stored encoded hash. The hash
// carries its own cost parameters, so verification survives parameter
// changes.
func (h *Hasher) Verify(plaintext, encoded string) (bool, error) {
	var (
		version          int
		mem, timeCost, p uint32
		saltB64          string
	)
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &mem, &timeCost, &p, &saltB64)
	if err != nil || n != 5 || version != argon2.Version {
		return false, ErrInvalidHash
	}
	if p > 255 {
		return false, ErrInvalidHash
	}

	// Sscanf's %s stops at whitespace only, so saltB64 still holds "salt$hash".
	var salt, expected []byte
	for i := 0; i < len(saltB64); i++ {
		if saltB64[i] == '$' {
			salt, err = base64.RawStdEncoding.DecodeString(saltB64[:i])
			if err != nil {
				return false, ErrInvalidHash
			}
			expected, err = base64.RawStdEncoding.DecodeString(saltB64[i+1:])
			if err != nil {
				return false, ErrInvalidHash
			}
			break
		}
	}
	if len(salt) == 0 || len(expected) == 0 {
		return false, ErrInvalidHash
	}

	actual := argon2.IDKey([]byte(plaintext), salt, timeCost, mem, uint8(p), uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}
