/*
Copyright 2023 Markus Papenbrock
*/
package main

import "github.com/mpapenbr/f1-visual-simulator/cmd"

func main() {
	cmd.Execute()
}
