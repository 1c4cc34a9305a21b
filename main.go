package main

import "github.com/fbz-tec/pgxjob/cmd"

func main() {
	cmd.Execute()
}
