// Command routescribe is the stand-alone RouteScribe binary. It has no router
// linked in, so generate and routes work from a route manifest
// (--router manifest). Applications that want in-process capture register
// their router with routes.Register and call cli.Execute from their own main.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/johnnynv/RouteScribe/pkg/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	root := cli.Root()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, cli.ErrorMessage(err))
		return 1
	}
	return 0
}
