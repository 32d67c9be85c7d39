package input

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
)

// Liner is an interactive token source with line editing and history.
type Liner struct {
	state       *liner.State
	prompt      string
	historyPath string
	q           queue
}

// NewLiner takes over the terminal. historyPath may be empty; otherwise
// history is loaded from it now and written back by Close.
func NewLiner(prompt, historyPath string) *Liner {
	l := &Liner{
		state:       liner.NewLiner(),
		prompt:      prompt,
		historyPath: historyPath,
	}
	l.state.SetCtrlCAborts(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = l.state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return l
}

func (l *Liner) SetPrompt(p string) { l.prompt = p }

func (l *Liner) Next() (string, error) {
	return l.q.next(l.readLine)
}

func (l *Liner) readLine() (string, error) {
	for {
		line, err := l.state.Prompt(l.prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("input: prompt failed")
			}
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			l.state.AppendHistory(line)
		}
		return line, nil
	}
}

func (l *Liner) Unshift(tokens ...string) { l.q.unshift(tokens) }

func (l *Liner) Line() int { return l.q.line }

// Close restores the terminal and saves history.
func (l *Liner) Close() error {
	if l.historyPath != "" {
		if f, err := os.Create(l.historyPath); err == nil {
			_, _ = l.state.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Warn().Err(err).Str("path", l.historyPath).Msg("input: could not save history")
		}
	}
	return l.state.Close()
}
