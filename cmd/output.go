package cmd

import (
	"github.com/fatih/color"
)

var (
	Cyan   = color.New(color.FgCyan)
	Yellow = color.New(color.FgHiYellow)
	Green  = color.New(color.FgHiGreen)
	Red    = color.New(color.FgRed)
)

func CLog(c *color.Color, str string) string {
	return c.Sprint(str)
}
