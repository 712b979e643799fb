package model

import (
	"crypto/rand"
	"strings"
)

const (
	orderNumberPrefix   = "ORD-"
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderNumberLength   = 8
)

// NewOrderNumber generates a human-facing order token: "ORD-" followed by
// 8 random symbols from a 36-character alphabet.
func NewOrderNumber() string {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		panic("ordernumber: failed to read random source: " + err.Error())
	}
	var b strings.Builder
	b.WriteString(orderNumberPrefix)
	for _, c := range buf {
		b.WriteByte(orderNumberAlphabet[int(c)%len(orderNumberAlphabet)])
	}
	return b.String()
}

// ValidOrderNumber checks the "ORD-XXXXXXXX" token format.
func ValidOrderNumber(number string) bool {
	if !strings.HasPrefix(number, orderNumberPrefix) {
		return false
	}
	body := number[len(orderNumberPrefix):]
	if len(body) != orderNumberLength {
		return false
	}
	for i := 0; i < len(body); i++ {
		if !strings.ContainsRune(orderNumberAlphabet, rune(body[i])) {
			return false
		}
	}
	return true
}
