// Command varnamd serves transliteration and crowd-sourced learning over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/varnamd/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
