package main

import "github.com/sgcalidad/plan-mejora/cmd"

func main() {
	cmd.Execute()
}
