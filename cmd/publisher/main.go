package main

import "github.com/publication-manager/cmd/publisher/commands"

func main() {
	commands.Execute()
}
