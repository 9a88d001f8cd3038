// Package prompt asks for activity fields on an interactive terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/daylog/pkg/activity"
)

// Asker asks for a single value, offering def and re-asking until validate
// accepts the answer.
type Asker func(label, def string, validate func(string) error) (string, error)

// Fields asks for every activity field in form order, starting from values.
func Fields(ask Asker, values map[activity.Field]string) (map[activity.Field]string, error) {
	out := make(map[activity.Field]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, f := range activity.Fields() {
		answer, err := ask(label(f), out[f], Validator(f))
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", f, err)
		}
		out[f] = strings.TrimSpace(answer)
	}
	return out, nil
}

func label(f activity.Field) string {
	if f == activity.FieldDate {
		return "Date (YYYY-MM-DD)"
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:]) + " hours"
}

// Validator checks raw input for f the way the draft will parse it.
func Validator(f activity.Field) func(string) error {
	if f == activity.FieldDate {
		return func(input string) error {
			_, err := activity.ParseDate(strings.TrimSpace(input))
			return err
		}
	}
	return func(input string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			return errors.New("not a number")
		}
		if v < 0 {
			return errors.New("must not be negative")
		}
		return nil
	}
}

// Terminal returns an Asker backed by promptui.
func Terminal(in io.Reader, out io.Writer) Asker {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "{{ . | bold }}: ",
	}
	return func(label, def string, validate func(string) error) (string, error) {
		p := promptui.Prompt{
			Label:     label,
			Default:   def,
			Templates: templates,
			Validate:  validate,
			Stdin:     io.NopCloser(in),
			Stdout:    nopCloser{out},
		}
		return p.Run()
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
