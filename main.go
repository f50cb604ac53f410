package main

import "github.com/KaramelBytes/biotab-cli/cmd"

func main() {
	cmd.Execute()
}
