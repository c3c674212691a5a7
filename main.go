package main

import "github.com/kasuboski/vodsync/cmd"

func main() {
	cmd.Execute()
}
