package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SelectionList pages through an ordered list of options. The page index
// is 1-based and always resolves to a non-empty visible slice; navigation
// past either end wraps around.
type SelectionList struct {
	Options  []string
	PageSize int

	page int
}

func NewSelectionList(options []string, pageSize int) *SelectionList {
	if pageSize < 1 {
		pageSize = 1
	}
	return &SelectionList{Options: options, PageSize: pageSize, page: 1}
}

func (l *SelectionList) Page() int {
	return l.page
}

func (l *SelectionList) PageCount() int {
	count := (len(l.Options) + l.PageSize - 1) / l.PageSize
	if count < 1 {
		count = 1
	}
	return count
}

// Visible returns the options on the current page, paired with the index
// of the first one within the full list.
func (l *SelectionList) Visible() (int, []string) {
	start := (l.page - 1) * l.PageSize
	end := start + l.PageSize
	if end > len(l.Options) {
		end = len(l.Options)
	}
	return start, l.Options[start:end]
}

func (l *SelectionList) Next() {
	l.page++
	if l.page > l.PageCount() {
		l.page = 1
	}
}

func (l *SelectionList) Prev() {
	l.page--
	if l.page < 1 {
		l.page = l.PageCount()
	}
}

// Selector presents a SelectionList to the operator and loops until a
// valid choice is made. It has no side effects beyond the returned value.
type Selector struct {
	Prompt Prompter
	Out    io.Writer
}

func NewSelector(prompt Prompter) *Selector {
	return &Selector{Prompt: prompt, Out: os.Stdout}
}

// Select renders options one page at a time and returns the chosen entry.
// "n" and "p" navigate with wrap-around. An empty answer returns def when
// def is non-empty; otherwise the operator is reprompted, as for any other
// invalid answer. Only a valid numeric choice or an accepted default
// terminates the loop.
func (s *Selector) Select(title string, options []string, pageSize int, def string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to select from")
	}
	list := NewSelectionList(options, pageSize)

	for {
		fmt.Fprintf(s.Out, "\n%s (page %d/%d)\n", title, list.Page(), list.PageCount())
		start, visible := list.Visible()
		for i, opt := range visible {
			fmt.Fprintf(s.Out, "%4d) %s\n", start+i+1, opt)
		}

		hint := fmt.Sprintf("Choice [1-%d, n=next, p=prev]", len(options))
		if def != "" {
			hint += fmt.Sprintf(" (default %s)", def)
		}
		answer, err := s.Prompt.Line(hint + ": ")
		if err != nil {
			return "", err
		}

		switch answer {
		case "":
			if def != "" {
				return def, nil
			}
		case "n":
			list.Next()
			continue
		case "p":
			list.Prev()
			continue
		default:
			choice, err := strconv.Atoi(answer)
			if err == nil && choice >= 1 && choice <= len(options) {
				return options[choice-1], nil
			}
		}

		fmt.Fprintf(s.Out, "Invalid choice: %q\n", answer)
	}
}
