package main

import (
	"fmt"
	"os"

	"github.com/ZararB/DogWalker/cmd"
)

func main() {
	if err := cmd.GetRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
