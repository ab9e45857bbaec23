// Command reflow renders, diffs and watches element tree files.
package main

import "github.com/go-drift/reflow/cmd/reflow/cmd"

func main() {
	cmd.Execute()
}
