// Package paycrypt implements the confidentiality boundary for card data.
//
// The client encrypts the JSON-serialised payment document with the server's
// RSA public key (OAEP, SHA-256) and transports it as a base64 string in
// place of a plaintext object. The server reverses it with the matching
// private key. Card data therefore never crosses the wire, the logs, or any
// intermediary in the clear.
package paycrypt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

// ErrDecrypt is returned when a ciphertext cannot be reversed: malformed
// base64, wrong key, or OAEP padding failure. All three are input-controlled,
// so callers must treat this as a client error, not a server fault.
var ErrDecrypt = errors.New("payment payload decryption failed")

// Encrypt OAEP-encrypts plaintext with pub and returns the base64 envelope.
// This is the client-side half of the codec; the server only ever decrypts.
func Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("paycrypt: encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses a base64 envelope produced by Encrypt.
func Decrypt(envelope string, priv *rsa.PrivateKey) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecrypt, err)
	}
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// ParsePrivateKey loads a PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("paycrypt: no PEM block in private key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("paycrypt: parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("paycrypt: private key is not RSA")
	}
	return key, nil
}

// ParsePublicKey loads a PEM-encoded RSA public key (SPKI).
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("paycrypt: no PEM block in public key")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("paycrypt: parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("paycrypt: public key is not RSA")
	}
	return key, nil
}

// MarshalPublicKey renders pub as the SPKI PEM string served to clients.
func MarshalPublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("paycrypt: marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
