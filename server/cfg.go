package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/model"
)

var ErrLayout = errors.New("malformed layout")

// Layout is a board with fixed mines, read from a text file where every line
// is a row, '*' a mine and '.' a safe cell.
type Layout struct {
	Rows, Cols int
	Mines      []model.Position
}

func (l *Layout) NewBoard(opts ...model.BoardOption) (*model.Board, error) {
	opts = append(opts, model.WithLayout(l.Mines))
	return model.NewBoard(l.Rows, l.Cols, len(l.Mines), opts...)
}

func LoadLayout(path string) (*Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer file.Close()
	l, err := ReadLayout(file)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"path": path, "rows": l.Rows, "cols": l.Cols, "mines": len(l.Mines)}).Info("layout loaded")
	return l, nil
}

func ReadLayout(reader io.Reader) (*Layout, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	l := &Layout{}
	line := 0

	for scanner.Scan() {
		line++
		s := strings.TrimRight(scanner.Text(), " \t\r")
		if s == "" {
			continue
		}
		col := 0
		for _, char := range s {
			switch char {
			case '*':
				l.Mines = append(l.Mines, model.Position{Row: l.Rows, Col: col})
			case '.':
			default:
				return nil, fmt.Errorf("line %d col %d: unexpected %q: %w", line, col+1, char, ErrLayout)
			}
			col++
		}
		if l.Rows == 0 {
			l.Cols = col
		} else if col != l.Cols {
			return nil, fmt.Errorf("line %d: %d cells, want %d: %w", line, col, l.Cols, ErrLayout)
		}
		l.Rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	if err := model.Validate(l.Rows, l.Cols, len(l.Mines)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	return l, nil
}
