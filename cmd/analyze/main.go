// Command analyze runs the meeting analysis pipeline over a JSON utterance
// file and prints the orchestration report.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewAnalyzeCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
