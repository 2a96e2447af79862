package main

import "github.com/relaymon/relaymon/cmd"

func main() {
	cmd.Execute()
}
