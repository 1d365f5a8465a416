package main

import "github.com/juanibiapina/pullrefresh/cmd"

func main() {
	cmd.Execute()
}
