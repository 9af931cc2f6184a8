package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/analysis/tone"
	"github.com/lumivian/receptionist/backend/internal/dialogue"
	"github.com/lumivian/receptionist/backend/internal/model/clinic"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	profile   string
	showState bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "chatsim",
		Short:         "Talk to the clinic receptionist script from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.profile, "clinic", "", "YAML clinic profile (defaults to the built-in profile)")
	root.PersistentFlags().BoolVar(&opts.showState, "state", false, "print step and appointment after every reply")

	root.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := clinic.LoadProfile(opts.profile)
			if err != nil {
				return err
			}
			return converse(cmd.InOrStdin(), cmd.OutOrStdout(), info, opts.showState, true)
		},
	})

	var file string
	script := &cobra.Command{
		Use:   "script",
		Short: "Replay caller lines from a file, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := clinic.LoadProfile(opts.profile)
			if err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			return converse(f, cmd.OutOrStdout(), info, opts.showState, false)
		},
	}
	script.Flags().StringVarP(&file, "file", "f", "", "script file")
	_ = script.MarkFlagRequired("file")
	root.AddCommand(script)

	return root
}

// converse feeds each input line through the dialogue and prints the receptionist's replies.
func converse(in io.Reader, out io.Writer, info clinic.Info, showState, prompt bool) error {
	state := dialogue.State{}
	fmt.Fprintf(out, "AI: %s\n", dialogue.Greet(info))

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		res := dialogue.Respond(info, state, line)
		if res.Ignored {
			continue
		}
		if !prompt {
			fmt.Fprintf(out, "You: %s\n", strings.TrimSpace(line))
		}

		decision := tone.Analyze(line, res.Reply)
		fmt.Fprintf(out, "AI [%s]: %s\n", decision.Tone, res.Reply)
		state = res.State

		if showState {
			a := state.Appointment
			fmt.Fprintf(out, "   step=%s name=%q age=%q problem=%q time=%q\n",
				state.Step, a.Name, a.Age, a.Problem, a.PreferredTime)
		}
	}
	return scanner.Err()
}
