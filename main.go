package main

import "rollcall-roster/cmd"

func main() {
	cmd.Execute()
}
