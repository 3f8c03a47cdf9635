package main

import "github.com/Prathmesh1703/SearchEngine/cmd"

func main() {
	cmd.Execute()
}
