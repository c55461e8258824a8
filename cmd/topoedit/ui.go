package main

import (
	"fmt"

	"github.com/fatih/color"

	"topoedit/internal/domain"
)

var (
	brand  = color.New(color.FgHiBlue, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// levelColors render traffic levels like the canvas strokes
var levelColors = map[domain.TrafficLevel]*color.Color{
	domain.TrafficIdle:   color.New(color.FgYellow, color.Faint),
	domain.TrafficLow:    color.New(color.FgGreen),
	domain.TrafficMedium: color.New(color.FgYellow),
	domain.TrafficHigh:   color.New(color.FgRed, color.Bold),
}

func levelString(l domain.TrafficLevel) string {
	c, ok := levelColors[l]
	if !ok {
		c = levelColors[domain.TrafficIdle]
	}
	return c.Sprintf("%-6s", l)
}

func header(title string) {
	fmt.Printf("%s %s\n\n", brand.Sprint("topoedit"), subtle.Sprint(title))
}
