package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

// confirm asks question and reads a y/N answer. --yes answers for the user;
// anything but y or yes, including end of input, cancels.
func (a *app) confirm(question string) (lifecycle.Decision, error) {
	if a.assumeYes {
		return lifecycle.Confirm, nil
	}
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return lifecycle.Cancel, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return lifecycle.Confirm, nil
	}
	return lifecycle.Cancel, nil
}

// readLine prompts for a value that was not given as a flag.
func (a *app) readLine(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
