package main

import "github.com/hit-leiden/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
