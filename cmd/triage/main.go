package main

import "github.com/crimson-sun/triage/internal/cmd"

func main() {
	cmd.Execute()
}
