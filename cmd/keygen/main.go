package main

import (
	"flag"
	"fmt"
	"log"

	"trustlend.backend/pkg/crypto"
)

var (
	printfFn = fmt.Printf
	fatalfFn = log.Fatalf
)

func validateKind(kind string) error {
	switch kind {
	case "verification", "encryption", "secret-hash":
		return nil
	}
	return fmt.Errorf("invalid kind: %s (allowed: verification, encryption, secret-hash)", kind)
}

func generate(kind, secret string) (string, error) {
	switch kind {
	case "verification":
		return crypto.GenerateVerificationKey()
	case "encryption":
		return crypto.GenerateRandomToken(32)
	case "secret-hash":
		if secret == "" {
			return "", fmt.Errorf("secret is required for secret-hash")
		}
		return crypto.HashSecret(secret)
	}
	return "", fmt.Errorf("invalid kind: %s", kind)
}

func main() {
	kind := flag.String("kind", "verification", "key kind: verification, encryption or secret-hash")
	secret := flag.String("secret", "", "operator secret to hash (secret-hash only)")
	flag.Parse()

	if err := validateKind(*kind); err != nil {
		fatalfFn("%v", err)
	}

	out, err := generate(*kind, *secret)
	if err != nil {
		fatalfFn("failed to generate %s: %v", *kind, err)
	}

	switch *kind {
	case "verification":
		printfFn("ATTESTATION_VERIFICATION_KEY=%s\n", out)
	case "encryption":
		printfFn("KEY_STORE_ENCRYPTION_KEY=%s\n", out)
	case "secret-hash":
		printfFn("Bcrypt Hash: %s\n", out)
	}
}
