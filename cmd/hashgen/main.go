// hashgen prints the bcrypt hash for a password, for seeding the
// credentials table.
//
// Usage: hashgen <password>
package main

import (
	"fmt"
	"os"

	"euromillones/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashgen <password>")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashgen:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
