package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCmd(os.Stdin, os.Stdout).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
	}
	os.Exit(exitCode(err))
}
