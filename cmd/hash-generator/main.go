// Command hash-generator prints the bcrypt hash of each password given on
// the command line. Used by support staff to craft seed accounts and to
// reproduce stored hashes when debugging login issues.
package main

import (
	"fmt"
	"os"

	"github.com/soundsteps/soundsteps-api/internal/service/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <password> [password...]")
		os.Exit(1)
	}

	verifier := auth.NewBcryptVerifier()
	for _, password := range os.Args[1:] {
		hash, err := verifier.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error hashing %q: %v\n", password, err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", hash)
	}
}
