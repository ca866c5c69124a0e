package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gonuts/commander"
)

var cmd = &commander.Command{
	UsageLine: os.Args[0] + " serve|convert",
	Short:     "normalize dependency parser output for Estonian text",
}

func init() {
	cmd.Subcommands = []*commander.Command{
		serveCmd(),
		convertCmd(),
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "**error**: %v\n", err)
	os.Exit(1)
}

func main() {
	if err := cmd.Dispatch(context.Background(), os.Args[1:]); err != nil {
		exit(err)
	}
}
