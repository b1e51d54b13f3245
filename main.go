package main

import "github.com/hmans/shelf/cmd"

func main() {
	cmd.Execute()
}
