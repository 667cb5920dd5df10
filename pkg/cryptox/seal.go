package cryptox

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters for deriving the sealing key from a passphrase.
const (
	sealIterations  = 2
	sealMemory      = 19 * 1024 // KiB
	sealParallelism = 1
	sealSaltLength  = 16
)

var sealMagic = []byte("BOS1")

var (
	ErrNoPassphrase = errors.New("cryptox: empty passphrase")
	ErrSealed       = errors.New("cryptox: sealed data is malformed or was tampered with")
)

// Sealer encrypts small blobs at rest with XChaCha20-Poly1305 under a key
// derived from a passphrase with Argon2id.
//
// Output format: [4-byte magic][16-byte salt][24-byte nonce][ciphertext+tag]
type Sealer struct {
	passphrase []byte

	mu   sync.Mutex
	salt []byte
	keys map[string][]byte // salt -> derived key
}

// NewSealer returns a Sealer for the given passphrase.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}

	salt := make([]byte, sealSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &Sealer{
		passphrase: []byte(passphrase),
		salt:       salt,
		keys:       make(map[string][]byte),
	}, nil
}

func (s *Sealer) key(salt []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k, ok := s.keys[string(salt)]; ok {
		return k
	}
	k := argon2.IDKey(s.passphrase, salt, sealIterations, sealMemory, sealParallelism, chacha20poly1305.KeySize)
	s.keys[string(salt)] = k
	return k
}

// Seal encrypts and authenticates plaintext.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key(s.salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealMagic)+len(s.salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealMagic...)
	out = append(out, s.salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, sealMagic), nil
}

// Open reverses Seal. Any corruption, a wrong passphrase, or a foreign format
// yields ErrSealed.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	header := len(sealMagic) + sealSaltLength + chacha20poly1305.NonceSizeX
	if len(sealed) < header+chacha20poly1305.Overhead || !bytes.HasPrefix(sealed, sealMagic) {
		return nil, ErrSealed
	}

	salt := sealed[len(sealMagic) : len(sealMagic)+sealSaltLength]
	nonce := sealed[len(sealMagic)+sealSaltLength : header]

	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed[header:], sealMagic)
	if err != nil {
		return nil, ErrSealed
	}
	return plaintext, nil
}
