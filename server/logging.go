package server

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/indigo-web/reqpool/http/status"
)

var classColors = map[int]*color.Color{
	2: color.New(color.FgGreen),
	3: color.New(color.FgCyan),
	4: color.New(color.FgYellow),
	5: color.New(color.FgRed),
}

// logRequest logs a served request, color-coded by the status class if enabled.
func (a *App) logRequest(method, path string, code status.Code, elapsed time.Duration) {
	if !a.cfg.Log.Requests {
		return
	}

	line := fmt.Sprintf("%s %s %d %s", method, path, code, elapsed.Round(time.Microsecond))
	if c, ok := classColors[status.Class(code)]; ok && a.cfg.Log.Color {
		line = c.Sprint(line)
	}

	a.logger.Print(line)
}
