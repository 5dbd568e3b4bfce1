package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const maxRequests = 3

func promptList[T any](list []T, start int, mapper func(T) string) int {
	for i, el := range list {
		fmt.Printf("(%d)\t%s\n", start+i, mapper(el))
	}

	var res string
	var choice int
	for {
		fmt.Print("Your choice: ")
		_, err := fmt.Scanf("%s", &res)
		if err != nil {
			fmt.Printf("Try again %s\n", err)
			continue
		}
		choice, err = strconv.Atoi(res)
		if err != nil {
			fmt.Printf("Try again %s\n", err)
			continue
		}

		if choice >= start && choice < len(list)+start {
			return choice
		}
	}
}

func promptLine(prompt string) string {
	var res string
	fmt.Print(prompt)
	_, err := fmt.Scanln(&res)
	if err != nil && err.Error() != "unexpected newline" {
		log.Error("app [promptLine]", "err", err, "res", res)
	}
	return strings.TrimSpace(res)
}

func makeRequest(target func() error) {
	for i := 0; i < maxRequests; i++ {
		err := target()
		if err == nil {
			return
		}
		log.Error("app [makeRequest]", "err", err)
	}
}

// parseCoords turns input like "B4" into (row, col): the letter is the
// column, the number the 1-based row.
func parseCoords(coords string, gridSize int) (int, int, error) {
	coords = strings.ToUpper(strings.TrimSpace(coords))
	if len(coords) < 2 {
		return -1, -1, fmt.Errorf("bad coordinates %q", coords)
	}
	col := int(coords[0] - 'A')
	row, err := strconv.Atoi(coords[1:])
	if err != nil {
		return -1, -1, err
	}
	row -= 1
	if row < 0 || row >= gridSize || col < 0 || col >= gridSize {
		return -1, -1, fmt.Errorf("coordinates %q outside %dx%d grid", coords, gridSize, gridSize)
	}
	return row, col, nil
}
