package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"evmasm/internal/diag"
	"evmasm/internal/program"
	"evmasm/pkg/asm"
	"evmasm/pkg/asmerr"
)

var (
	format   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "evmasm",
	Short: "Assemble an EVM bytecode program",
	Long:  `evmasm reads a demo YAML program description and emits EVM bytecode.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble <file|->",
	Short: "Assemble a YAML program into bytecode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if level == "" {
			level = os.Getenv("EVMASM_LOG_LEVEL")
		}
		if level != "" {
			if err := diag.SetLevel(level); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", level, err)
			}
		}

		src, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		prog, err := program.Parse(src)
		if err != nil {
			return err
		}

		out, err := asm.Assemble(prog)
		if err != nil {
			if errors.Is(err, asmerr.KindUndefinedReference) {
				return fmt.Errorf("%w (check that every push_label/push_ptr/push_size name matches a label or bytes block)", err)
			}
			return err
		}

		return printBytecode(cmd.OutOrStdout(), out)
	},
}

func init() {
	assembleCmd.Flags().StringVar(&format, "format", "hex", "output format: hex|bin|both")
	assembleCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: panic|fatal|error|warn|info|debug|trace")
	rootCmd.AddCommand(assembleCmd)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func printBytecode(w io.Writer, code []byte) error {
	switch format {
	case "hex":
		return printHex(w, code)
	case "bin":
		_, err := w.Write(code)
		return err
	case "both":
		if err := printHex(w, code); err != nil {
			return err
		}
		_, err := w.Write(code)
		return err
	default:
		return fmt.Errorf("unknown --format %q, want hex|bin|both", format)
	}
}

// printHex prints the bytecode as a hex dump, highlighting each PUSH
// instruction (its opcode byte together with its immediate) when stdout
// is a terminal so readers can visually separate push data from the
// surrounding opcodes.
func printHex(w io.Writer, code []byte) error {
	highlight := color.New(color.FgYellow).SprintFunc()
	useColor := color.NoColor == false

	i := 0
	for i < len(code) {
		b := code[i]
		if b >= 0x60 && b <= 0x7F {
			width := int(b) - 0x60 + 1
			if i+width >= len(code) {
				width = len(code) - i - 1
			}
			chunk := hex.EncodeToString(code[i : i+1+width])
			if useColor {
				if _, err := fmt.Fprint(w, highlight(chunk)); err != nil {
					return err
				}
			} else if _, err := fmt.Fprint(w, chunk); err != nil {
				return err
			}
			i += 1 + width
			continue
		}
		if _, err := fmt.Fprint(w, hex.EncodeToString(code[i:i+1])); err != nil {
			return err
		}
		i++
	}
	_, err := fmt.Fprintln(w)
	return err
}
