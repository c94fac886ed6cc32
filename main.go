package main

import "github.com/kamal-hamza/zx-cli/cmd"

func main() {
	cmd.Execute()
}
