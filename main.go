package main

import "github.com/Rorical/typedconfirm/cmd"

func main() {
	cmd.Execute()
}
