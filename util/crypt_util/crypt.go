// Package crypt_util encrypts reply payloads with the controller's RSA
// public key.
package crypt_util

import (
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/farmerx/gorsa"
)

// gorsa keeps its key in a package-level value.
var mu sync.Mutex

type CryptUtil struct{}

// New loads a PEM encoded "PUBLIC KEY" block.
func New(publicKeyPEM []byte) (*CryptUtil, error) {
	block, _ := pem.Decode(publicKeyPEM)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("failed to decode public key")
	}

	mu.Lock()
	defer mu.Unlock()
	if err := gorsa.RSA.SetPublicKey(string(publicKeyPEM)); err != nil {
		return nil, fmt.Errorf("set public key: %w", err)
	}
	return &CryptUtil{}, nil
}

func NewFromFile(path string) (*CryptUtil, error) {
	publicKeyPEM, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("public key not found: %w", err)
	}
	return New(publicKeyPEM)
}

func (cu *CryptUtil) EncryptViaPub(input []byte) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	return gorsa.RSA.PubKeyENCTYPT(input)
}
