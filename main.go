package main

import "cashbook/cmd"

func main() {
	cmd.Execute()
}
