// Command nerkit extracts measurements, named entities and URIs from text and
// manages the ontology database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nerkit:", err)
		os.Exit(1)
	}
}
