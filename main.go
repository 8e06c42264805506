package main

import "github.com/tinyshell/tsh/cmd"

func main() {
	cmd.Execute()
}
