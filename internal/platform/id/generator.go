package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator issues the identifiers for game sets, games and check-ins.
type Generator interface {
	NewID() (string, error)
}

// HexGenerator draws 128 random bits per identifier and renders them as a
// 32-character hex string.
type HexGenerator struct{}

func NewHexGenerator() *HexGenerator {
	return &HexGenerator{}
}

func (g *HexGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate id entropy: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
