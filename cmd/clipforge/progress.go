package main

import (
	"fmt"
	"io"
)

// progressPrinter renders an in-place percentage on interactive terminals and
// stays quiet otherwise.
type progressPrinter struct {
	out         io.Writer
	label       string
	interactive bool
	lastPercent int
	wrote       bool
}

func newProgressPrinter(out io.Writer, label string) *progressPrinter {
	return &progressPrinter{
		out:         out,
		label:       label,
		interactive: isInteractive(out),
		lastPercent: -1,
	}
}

func (p *progressPrinter) publish(fraction float64) {
	if !p.interactive {
		return
	}
	percent := int(fraction * 100)
	if percent == p.lastPercent {
		return
	}
	p.lastPercent = percent
	p.wrote = true
	fmt.Fprintf(p.out, "\r%s... %3d%%", p.label, percent)
}

func (p *progressPrinter) finish() {
	if p.wrote {
		fmt.Fprintln(p.out)
	}
}
