// Command evmasm is a CLI wrapper around the assembler core: it reads a
// demo YAML program (internal/program), assembles it, and prints the
// resulting bytecode.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
