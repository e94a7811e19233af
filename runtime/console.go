package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// StdConsole implements lang.Console over a writer, a line reader and a
// seeded random source.
type StdConsole struct {
	out io.Writer

	readMu sync.Mutex
	in     *bufio.Reader

	randomMu sync.Mutex
	random   *rand.Rand
}

// NewConsole returns a console writing to out and reading from in. A nil
// reader behaves as empty input.
func NewConsole(out io.Writer, in io.Reader) *StdConsole {
	if in == nil {
		in = strings.NewReader("")
	}
	return &StdConsole{
		out:    out,
		in:     bufio.NewReader(in),
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed resets the random source so that runs are reproducible.
func (c *StdConsole) Seed(seed int64) {
	c.randomMu.Lock()
	defer c.randomMu.Unlock()
	c.random = rand.New(rand.NewSource(seed))
}

func (c *StdConsole) WriteLine(line string) error {
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (c *StdConsole) ReadLine() (string, bool, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", false, nil
			}
		} else {
			return "", false, fmt.Errorf("read input: %w", err)
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

func (c *StdConsole) Intn(n int) int {
	c.randomMu.Lock()
	defer c.randomMu.Unlock()
	return c.random.Intn(n)
}
