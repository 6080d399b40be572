package main

import (
	"github.com/yuvi-2309/Foodie-Finder/cmd/foodie/commands"
)

func main() {
	commands.Execute()
}
