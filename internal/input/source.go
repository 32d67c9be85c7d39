package input

import (
	"bufio"
	"io"

	"github.com/rs/zerolog/log"
)

// queue holds tokens already split from input but not yet handed out.
type queue struct {
	pending []string
	line    int
}

func (q *queue) next(readLine func() (string, error)) (string, error) {
	for len(q.pending) == 0 {
		text, err := readLine()
		if err != nil {
			return "", err
		}
		q.line++
		q.pending = Tokenize(text)
	}
	tok := q.pending[0]
	q.pending = q.pending[1:]
	return tok, nil
}

func (q *queue) unshift(tokens []string) {
	q.pending = append(append(make([]string, 0, len(tokens)+len(q.pending)), tokens...), q.pending...)
}

// MaxLineSize bounds a single line of input read by a Reader.
const MaxLineSize = 16 << 20

// Reader is a token source over any io.Reader, read a line at a time.
type Reader struct {
	scanner *bufio.Scanner
	q       queue
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next token, or io.EOF once the input is used up.
func (r *Reader) Next() (string, error) {
	return r.q.next(r.readLine)
}

func (r *Reader) readLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		log.Debug().Err(err).Int("line", r.q.line).Msg("input: read failed")
		return "", err
	}
	return "", io.EOF
}

func (r *Reader) Unshift(tokens ...string) { r.q.unshift(tokens) }

// Line is the number of the line the last token came from.
func (r *Reader) Line() int { return r.q.line }
