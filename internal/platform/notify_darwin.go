//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Notify posts to Notification Center through osascript. Icons and expiry
// are not configurable there.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %s with title %s subtitle %s",
		appleQuote(body), appleQuote(title), appleQuote(AppName))
	return exec.Command("osascript", "-e", script).Run()
}
