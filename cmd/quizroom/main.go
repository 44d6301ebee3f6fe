package main

import (
	"github.com/edugame/quizroom/internal/cli"
)

func main() {
	cli.Execute()
}
