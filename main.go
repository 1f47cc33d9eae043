package main

import "github.com/alde/pdf2pwg/cmd"

func main() {
	cmd.Execute()
}
