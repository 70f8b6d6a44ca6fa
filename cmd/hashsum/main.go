package main

import (
	"fmt"
	"os"

	"hashbox/internal/objects"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: hashsum <file>...")
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		hash, err := sum(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hashsum: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s  %s\n", hash, path)
	}

	if failed {
		os.Exit(1)
	}
}

func sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hash, _, err := objects.HashReader(f)
	return hash, err
}
