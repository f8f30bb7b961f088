package main

import "github.com/mouse-blink/livetrace/cmd"

func main() {
	cmd.Execute()
}
