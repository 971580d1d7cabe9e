package main

import "lomba-pmr/cmd"

func main() {
	cmd.Execute()
}
