package publisher

import (
	"os/exec"
	"runtime"
)

// SystemBrowser opens URLs with the platform's default handler. The system
// openers already use a new tab where the browser supports it.
type SystemBrowser struct{}

func (SystemBrowser) Open(url string, _ bool) error {
	return browserCommand(runtime.GOOS, url).Start()
}

func browserCommand(goos, u string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", u)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default: // linux, freebsd, etc.
		return exec.Command("xdg-open", u)
	}
}
