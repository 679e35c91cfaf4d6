package main

import (
	"fmt"
	"os"

	"github.com/anbu-app/anbu/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "anbu: %v\n", err)
		os.Exit(1)
	}
}
