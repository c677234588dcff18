package main

import "github.com/notargets/comsol2aero/cmd"

func main() {
	cmd.Execute()
}
