// Package cryptox 提供凭据密码的静态加密。
//
// 密文格式: "enc:v1:" + base64(nonce || AES-256-GCM ciphertext)。
// 未带前缀的值视为历史明文，原样返回。
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const sealedPrefix = "enc:v1:"

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Sealer 加解密接口；Plaintext 实现保持明文存储
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
}

// Plaintext 不做任何处理
type Plaintext struct{}

func (Plaintext) Seal(p string) (string, error) { return p, nil }
func (Plaintext) Open(s string) (string, error) { return s, nil }

// AESGCM 基于口令派生密钥的 AES-256-GCM 实现
type AESGCM struct {
	aead cipher.AEAD
}

// NewSealer 按口令构造 Sealer；口令为空时返回 Plaintext
func NewSealer(passphrase string) (Sealer, error) {
	if passphrase == "" {
		return Plaintext{}, nil
	}
	return NewAESGCM(passphrase)
}

// NewAESGCM 使用 argon2id 从口令派生 32 字节密钥。
// 盐取口令的 SHA-256，保证同一口令在多实例间得到相同密钥。
func NewAESGCM(passphrase string) (*AESGCM, error) {
	salt := sha256.Sum256([]byte("cooltech-credentials:" + passphrase))
	key := argon2.IDKey([]byte(passphrase), salt[:16], 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("创建 AES 失败: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("创建 GCM 失败: %w", err)
	}
	return &AESGCM{aead: aead}, nil
}

// Seal 加密明文，每次使用新的随机 nonce
func (s *AESGCM) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open 解密；无前缀的历史明文直接返回
func (s *AESGCM) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrMalformedCiphertext
	}
	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("解密失败: %w", err)
	}
	return string(plain), nil
}
