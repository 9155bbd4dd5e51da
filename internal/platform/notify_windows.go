//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// toastScript builds the PowerShell that raises a toast. The image line is
// only emitted when an icon is given.
func toastScript(title, body, icon string, expireMillis int32) string {
	kind := "ToastText02"
	if icon != "" {
		kind = "ToastImageAndText02"
	}
	lines := []string{
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null`,
		fmt.Sprintf(`$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s)`, kind),
		`$texts = $t.GetElementsByTagName("text")`,
		fmt.Sprintf(`$texts.Item(0).AppendChild($t.CreateTextNode(%s)) > $null`, psQuote(title)),
		fmt.Sprintf(`$texts.Item(1).AppendChild($t.CreateTextNode(%s)) > $null`, psQuote(body)),
	}
	if icon != "" {
		lines = append(lines, fmt.Sprintf(`$t.GetElementsByTagName("image").Item(0).SetAttribute("src", %s)`, psQuote(icon)))
	}
	lines = append(lines,
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($t)`,
		fmt.Sprintf(`$toast.ExpirationTime = [DateTimeOffset]::Now.AddMilliseconds(%d)`, expireMillis),
		fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast)`, psQuote(AppName)),
	)
	return strings.Join(lines, "; ")
}

// Notify raises a toast through PowerShell and the WinRT notification manager.
func Notify(title, body string, opts Options) error {
	script := toastScript(title, body, strings.TrimSpace(opts.IconPath), opts.expireMillis())
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
