package main

import "github.com/pudey33/DreamRate/cmd"

func main() {
	cmd.Execute()
}
