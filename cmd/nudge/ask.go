package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nudge"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask for one hint and print it",
	Long: `Asks for a single hint without opening the popup. The question is taken
from the arguments, or from standard input when no arguments are given:

  nudge ask "how do I detect a cycle in a linked list?"
  cat solution.py | nudge ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}

		hinter, err := newHinter(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return ask(cmd.Context(), hinter, text, cmd.OutOrStdout(), cmd.ErrOrStderr(),
			nudge.WithDisplay(cfg.Display()),
		)
	},
}

// ask runs one submit cycle against a plain-text view.
func ask(ctx context.Context, source nudge.HintSource, text string, out, errOut io.Writer, opts ...nudge.SessionOption) error {
	view := &textView{out: out, errOut: errOut}
	session := nudge.NewSession(source, view, opts...)
	defer session.Close()

	if _, err := session.Submit(ctx, text); err != nil {
		return errReported
	}
	return nil
}

// textView renders session output as plain lines.
type textView struct {
	out    io.Writer
	errOut io.Writer
}

func (v *textView) SetLoading(loading bool) {
	if loading {
		fmt.Fprintln(v.errOut, "Analyzing your problem...")
	}
}

func (v *textView) ShowResult(text string) {
	fmt.Fprintln(v.out, text)
}

func (*textView) HideResult() {}

func (v *textView) ShowError(message string) {
	fmt.Fprintln(v.errOut, "Error:", message)
}

func (*textView) ClearError() {}

func (*textView) FocusInput() {}
