package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	addColor     = color.New(color.FgGreen)
	delColor     = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

func printSection(title string) {
	_, _ = headerColor.Printf("%s\n", title)
}

func printSuccess(format string, args ...any) {
	_, _ = successColor.Printf("✓ "+format+"\n", args...)
}

func printError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printLabelValue(label, value string) {
	_, _ = labelColor.Printf("  %s: ", label)
	fmt.Println(value)
}

// printPatch colors a line-prefixed patch the way git does.
func printPatch(patch string) {
	start := 0
	for start < len(patch) {
		end := start
		for end < len(patch) && patch[end] != '\n' {
			end++
		}
		line := patch[start:end]
		switch {
		case len(line) > 0 && line[0] == '+':
			_, _ = addColor.Println(line)
		case len(line) > 0 && line[0] == '-':
			_, _ = delColor.Println(line)
		default:
			fmt.Println(line)
		}
		start = end + 1
	}
}
