package main

import "github.com/juststeveking/pingtray/cmd"

func main() {
	cmd.Execute()
}
