// Package open launches portal pages with the system's default handler.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
)

// Start opens input with the default system handler without waiting for it.
func Start(input string) error {
	cmd, ok := command(input)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// Resolve joins a portal path to base. Absolute links are returned untouched.
func Resolve(base, link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("nothing to open")
	}

	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("link %q: %w", link, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	root, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("base %q: %w", base, err)
	}
	root.Path = strings.TrimSuffix(root.Path, "/")

	return root.String() + "/" + strings.TrimPrefix(link, "/"), nil
}

func command(input string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), true
	case constant.Darwin:
		return exec.Command("open", input), true
	case constant.Linux:
		return exec.Command("xdg-open", input), true
	case constant.Android:
		return exec.Command("termux-open", input), true
	default:
		return nil, false
	}
}
