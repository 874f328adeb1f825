package main

import (
	"github.com/surveykit/tablepipe/pkg/cmd"
)

func main() {
	cmd.Execute()
}
