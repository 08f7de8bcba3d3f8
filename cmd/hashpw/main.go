// Command hashpw reads a password from the terminal and prints the bcrypt
// hash the server would store for it. Useful for seeding accounts.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskplaces/internal/server/auth"
	"golang.org/x/term"
)

var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {
	if err := run(os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out, prompt io.Writer) error {
	fmt.Fprint(prompt, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(prompt)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return errors.New("empty password")
	}

	hash, err := auth.NewCredentialStore().Hash(string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}
