package main

import "github.com/indrora/har/cmd/har/cmd"

func main() {
	cmd.Execute()
}
