package lnurl

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const ivSize = aes.BlockSize

var (
	// ErrDecrypt is returned when an aes success action can't be
	// decrypted with the given preimage.
	ErrDecrypt = errors.New("could not decrypt success action")

	errKeySize = errors.New("preimage must be 32 bytes")
)

// EncryptAesAction encrypts plaintext with the payment preimage into a
// LUD-10 aes success action, using AES-256-CBC and PKCS#7 padding.
func EncryptAesAction(preimage []byte, description,
	plaintext string) (*SuccessAction, error) {

	return encryptAesAction(rand.Reader, preimage, description, plaintext)
}

func encryptAesAction(r io.Reader, preimage []byte, description,
	plaintext string) (*SuccessAction, error) {

	if len(preimage) != 32 {
		return nil, errKeySize
	}
	if plaintext == "" {
		return nil, errors.New("nothing to encrypt")
	}

	block, err := aes.NewCipher(preimage)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, err
	}

	data := pad([]byte(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(data, data)

	a := &SuccessAction{
		Tag:         SuccessActionAES,
		Description: description,
		Ciphertext:  base64.StdEncoding.EncodeToString(data),
		IV:          base64.StdEncoding.EncodeToString(iv),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Decrypt returns the plaintext of an aes success action.
func (a *SuccessAction) Decrypt(preimage []byte) (string, error) {
	if a.Tag != SuccessActionAES {
		return "", fmt.Errorf("%w: %s action is not encrypted",
			ErrDecrypt, a.Tag)
	}
	if len(preimage) != 32 {
		return "", errKeySize
	}

	data, err := base64.StdEncoding.DecodeString(a.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of "+
			"the block size", ErrDecrypt)
	}

	iv, err := base64.StdEncoding.DecodeString(a.IV)
	if err != nil || len(iv) != ivSize {
		return "", fmt.Errorf("%w: invalid iv", ErrDecrypt)
	}

	block, err := aes.NewCipher(preimage)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}

	return data[:len(data)-n], nil
}
