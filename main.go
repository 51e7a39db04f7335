package main

import "github.com/MyCarrier-DevOps/go-gitbridge/cmd"

func main() {
	cmd.Execute()
}
