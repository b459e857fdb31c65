// Package main is a development utility for generating an ENCRYPTION_KEY
// value. The connector secret cipher requires a 32-byte key; this prints 16
// random bytes hex-encoded so the resulting string is exactly 32 characters
// and safe to paste into an environment file.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

func main() {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("ENCRYPTION_KEY=%s\n", hex.EncodeToString(raw))
}
