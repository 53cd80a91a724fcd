package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
)

const verificationKeySlot = "attestation:verification_key"

// KeyStore persists the attestation verification key in Redis, encrypted
// with AES-GCM so a rotated key survives process restarts without landing
// in Redis as plaintext.
type KeyStore struct {
	encryptionKey []byte
}

var (
	setStoreValue = Set
	getStoreValue = Get
	delStoreValue = Del
)

// NewKeyStore creates a new key store
func NewKeyStore(encryptionKeyHex string) (*KeyStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &KeyStore{encryptionKey: key}, nil
}

// SaveVerificationKey stores the encrypted verification key without expiry
func (s *KeyStore) SaveVerificationKey(ctx context.Context, verificationKey string) error {
	encrypted, err := s.encrypt([]byte(verificationKey))
	if err != nil {
		return err
	}
	return setStoreValue(ctx, verificationKeySlot, encrypted, 0)
}

// LoadVerificationKey retrieves and decrypts the stored verification key.
// Returns redis.Nil when no key has been persisted.
func (s *KeyStore) LoadVerificationKey(ctx context.Context) (string, error) {
	encrypted, err := getStoreValue(ctx, verificationKeySlot)
	if err != nil {
		return "", err
	}
	plain, err := s.decrypt(encrypted)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// DeleteVerificationKey removes the persisted verification key
func (s *KeyStore) DeleteVerificationKey(ctx context.Context) error {
	return delStoreValue(ctx, verificationKeySlot)
}

func (s *KeyStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *KeyStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
