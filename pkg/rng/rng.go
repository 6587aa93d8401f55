package rng

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// Source - единственный источник случайности для игр.
// Intn возвращает равномерно распределённое число из [0, n), n > 0
type Source interface {
	Intn(n int) int
}

// cryptoSource читает байты из crypto/rand
type cryptoSource struct{}

// NewCryptoSource источник на системном CSPRNG
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	return uniform(n, func() uint64 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic("crypto/rand read failed: " + err.Error())
		}
		return binary.LittleEndian.Uint64(b[:])
	})
}

// seededSource - детерминированный поток ChaCha20, позволяет переиграть раунды по сиду
type seededSource struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewSeededSource создаёт источник из сида длиной 32 байта
func NewSeededSource(seed []byte) (Source, error) {
	if len(seed) != chacha20.KeySize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", chacha20.KeySize, len(seed))
	}

	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(seed, nonce)
	if err != nil {
		return nil, err
	}

	return &seededSource{cipher: c}, nil
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uniform(n, func() uint64 {
		var b [8]byte
		// XOR с нулями отдаёт сам ключевой поток
		s.cipher.XORKeyStream(b[:], b[:])
		return binary.LittleEndian.Uint64(b[:])
	})
}

// uniform - выборка без смещения методом отбрасывания
func uniform(n int, next func() uint64) int {
	if n <= 0 {
		panic(errors.New("rng: n must be positive"))
	}

	bound := uint64(n)
	// Наибольшее кратное bound, которое помещается в uint64
	limit := ^uint64(0) - (^uint64(0) % bound)
	for {
		v := next()
		if v < limit {
			return int(v % bound)
		}
	}
}
