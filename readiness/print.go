package readiness

import (
	"fmt"
	"io"
	"os"

	"github.com/jwalton/go-supportscolor"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	bold  = "\033[1m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, bold, reset = "", "", "", ""
	}
}

// Printer renders harness progress and the final summary.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to stdout.
func NewPrinter() *Printer {
	return &Printer{out: os.Stdout}
}

// NewPrinterWithWriter creates a printer writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Banner prints the harness header.
func (p *Printer) Banner(title string) {
	fmt.Fprintf(p.out, "%s%s%s\n", bold, title, reset)
}

// Result prints one check line with colored status.
func (p *Printer) Result(r CheckResult) {
	if r.Success {
		fmt.Fprintf(p.out, "%s[PASS]%s %s (%.2fs)\n", green, reset, r.Name, r.Duration.Seconds())
	} else {
		fmt.Fprintf(p.out, "%s[FAIL]%s %s (%.2fs)\n", red, reset, r.Name, r.Duration.Seconds())
	}
	if r.Message != "" {
		fmt.Fprintf(p.out, "       %s\n", r.Message)
	}
}

// Summary prints the final verdict.
func (p *Printer) Summary(report Report) {
	passed := 0
	for _, result := range report.Checks {
		if result.Success {
			passed++
		}
	}

	fmt.Fprintf(p.out, "\n%d/%d checks passed in %.2fs\n", passed, len(report.Checks), report.TotalDuration.Seconds())
	if report.OverallSuccess {
		fmt.Fprintf(p.out, "%sPRODUCTION READY%s\n", green, reset)
	} else {
		fmt.Fprintf(p.out, "%sNOT PRODUCTION READY%s\n", red, reset)
	}
}
