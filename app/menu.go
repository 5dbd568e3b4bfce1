package app

import (
	"fmt"
)

var menuEntries = []string{
	"Solo practice",
	"Versus CPU",
	"Host a LAN game",
	"Join a LAN game",
	"Quit",
}

var difficultyNames = []string{"easy", "medium", "hard"}

func (a *App) displayMenu() int {
	fmt.Println("What do you want to do?")
	return promptList(menuEntries, 1, func(s string) string { return s })
}

func (a *App) promptDifficulty() string {
	fmt.Println("Pick a difficulty:")
	idx := promptList(difficultyNames, 0, func(s string) string { return s })
	return difficultyNames[idx]
}
