package main

import "schema-compare/cmd"

func main() {
	cmd.Execute()
}
