package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// keyBits is the RSA modulus size for generated key pairs.
const keyBits = 2048

const (
	privatePEMType = "PRIVATE KEY"
	publicPEMType  = "PUBLIC KEY"
)

// KeyPair holds a PEM-encoded RSA signing key and its verification key.
// The private key is the authoritative half: the public PEM is always
// re-derivable from it via PublicPEMFromPrivate.
type KeyPair struct {
	// PrivatePEM is the unencrypted private key in PKCS#8 PEM encoding.
	PrivatePEM string

	// PublicPEM is the public key in SubjectPublicKeyInfo PEM encoding.
	PublicPEM string
}

// GenerateKeyPair creates a fresh 2048-bit RSA key pair. Persisting the
// PEM blocks is the caller's responsibility.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("auth: generate rsa key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("auth: encode private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("auth: encode public key: %w", err)
	}

	return &KeyPair{
		PrivatePEM: string(pem.EncodeToMemory(&pem.Block{Type: privatePEMType, Bytes: privDER})),
		PublicPEM:  string(pem.EncodeToMemory(&pem.Block{Type: publicPEMType, Bytes: pubDER})),
	}, nil
}

// ParsePrivateKey parses an unencrypted PEM-encoded RSA private key.
// Both PKCS#8 and PKCS#1 encodings are accepted; password-protected keys
// are not supported.
func ParsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", ErrInvalidKey)
		}
		return key, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// ParsePublicKey parses a PEM-encoded RSA public key in
// SubjectPublicKeyInfo or PKCS#1 encoding.
func ParsePublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", ErrInvalidKey)
		}
		return key, nil
	}

	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// PublicPEMFromPrivate derives the public key PEM from a private key PEM.
// Used by the provisioning tool so a stored private key alone is enough to
// reconstruct the full pair.
func PublicPEMFromPrivate(privatePEM string) (string, error) {
	key, err := ParsePrivateKey(privatePEM)
	if err != nil {
		return "", err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("auth: encode public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicPEMType, Bytes: pubDER})), nil
}
