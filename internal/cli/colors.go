package cli

import "github.com/fatih/color"

var (
	promptColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	cwdColor     = color.New(color.FgBlue).SprintFunc()
	commandColor = color.New(color.FgHiBlack).SprintFunc()
	okColor      = color.New(color.FgGreen).SprintFunc()
	failColor    = color.New(color.FgRed).SprintFunc()
)
