package main

import "github.com/dt-pm-tools/git-autometa/cmd"

func main() {
	cmd.Execute()
}
