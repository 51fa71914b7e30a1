package main

import "github.com/himuexe/Utsavia/cmd/authctl/cmd"

func main() {
	cmd.Execute()
}
