package main

import "shopmate/cmd"

func main() {
	cmd.Execute()
}
