// @title CampusFound API
// @version 1.0
// @description Campus lost-and-found posting board.
// @BasePath /
package main

import "github.com/KHILANO5/Campusfound/cmd/campusfound/commands"

func main() {
	commands.Execute()
}
