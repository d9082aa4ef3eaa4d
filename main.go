package main

import "github.com/regimenhq/regimen/cmd"

func main() {
	cmd.Execute()
}
