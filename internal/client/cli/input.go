package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo. Swapped in tests.
var readPassword = term.ReadPassword

// ReadLine shows label on w as "label: " and returns the next trimmed line.
// A last line without a newline is still returned.
func ReadLine(r *bufio.Reader, label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	line, err := r.ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && line != "":
		return strings.TrimSpace(line), nil
	default:
		return "", err
	}
}

// ReadSecret asks for the account password on the controlling terminal.
// Callers wipe the result with common.WipeByteArray.
func ReadSecret(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Password: ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return secret, nil
}

// ReadParagraph collects free text, such as a custom rewrite instruction,
// until a blank line or end of input.
func ReadParagraph(r *bufio.Reader, label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s (blank line to finish):\n", label)

	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if line == "" || err != nil {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}
