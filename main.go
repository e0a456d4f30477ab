package main

import "p6export/cmd"

func main() {
	cmd.Execute()
}
