package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A Scanner reads trace events from an input stream, one per line. Lines
// that do not form a well-formed event are skipped.
type Scanner struct {
	scanner *bufio.Scanner
}

// NewScanner creates a Scanner that reads events from r.
func NewScanner(r io.Reader) *Scanner {
	s := new(Scanner)
	s.scanner = bufio.NewScanner(r)

	return s
}

// Open creates a Scanner over the trace file at path. The returned function
// closes the file once the scan is over.
func Open(path string) (*Scanner, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	return NewScanner(file), file.Close, nil
}

// Next returns the next well-formed event in the trace. The second return
// value is false when the trace is exhausted.
func (s *Scanner) Next() (Event, bool) {
	for s.scanner.Scan() {
		event, ok := parseLine(s.scanner.Text())
		if !ok {
			continue
		}

		return event, true
	}

	return Event{}, false
}

// Err returns the first error encountered while reading the input, if any.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// A well-formed line is an operation letter followed by a hexadecimal
// address and a decimal size separated by a comma, such as " M 20,1".
// Instruction lines start in the first column, data lines are indented.
func parseLine(line string) (Event, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Event{}, false
	}

	if len(fields[0]) != 1 {
		return Event{}, false
	}
	op := Op(fields[0][0])

	addrSize := strings.Split(fields[1], ",")
	if len(addrSize) != 2 {
		return Event{}, false
	}

	addr, err := strconv.ParseUint(addrSize[0], 16, 64)
	if err != nil {
		return Event{}, false
	}

	size, err := strconv.Atoi(addrSize[1])
	if err != nil {
		return Event{}, false
	}

	return Event{Op: op, Addr: addr, Size: size}, true
}

// CountDataEvents returns the number of data access events, the loads,
// stores, and modifies, in the trace file at path. Instruction fetches do
// not count.
func CountDataEvents(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	scanner := NewScanner(file)
	for event, ok := scanner.Next(); ok; event, ok = scanner.Next() {
		if event.Op.IsData() {
			count++
		}
	}

	return count, nil
}
