package main

import "github.com/foomo/contentserver-booknav/cmd"

func main() {
	cmd.Execute()
}
