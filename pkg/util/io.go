package util

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ReadLine. read one line without the trailing newline. the last line may come without '\n'.
func ReadLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(len(line) > 0 && errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
