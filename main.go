package main

import "trafficpulse/cmd"

func main() {
	cmd.Execute()
}
