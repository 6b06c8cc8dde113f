package main

import "github.com/xvierd/arc-cli/cmd"

func main() {
	cmd.Execute()
}
