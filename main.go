package main

import "sgsync/cmd"

func main() {
	cmd.Execute()
}
