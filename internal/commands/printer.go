package commands

import (
	"fmt"
	"io"

	"github.com/colonyops/patchwork/internal/core/styles"
)

// Printer writes styled status lines for humans.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.Printf("%s %s", styles.TextSuccessStyle.Render("✔"), fmt.Sprintf(format, args...))
}

func (p *Printer) Infof(format string, args ...any) {
	p.Printf("%s %s", styles.TextWarningStyle.Render("•"), fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.Printf("%s %s", styles.TextErrorStyle.Render("✘"), fmt.Sprintf(format, args...))
}
