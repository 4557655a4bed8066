package main

import "github.com/Tiliavir/cedolino/cmd"

func main() {
	cmd.Execute()
}
