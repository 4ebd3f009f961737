package copiclib

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

func setDBUSAddress() error {
	dbus := os.Getenv(dbusAddress)
	if dbus == "" {
		// For now just assume we're dealing with per-user dbus sessions
		user, err := user.Current()
		if err != nil {
			return nil
		}
		uid := user.Uid
		if uid == "" {
			return errors.New("No $UID set")
		}
		return os.Setenv(dbusAddress, "unix:path=/run/user/"+uid+"/bus")
	}

	return nil
}

// NextOutputFile allocates a fresh file in OutputDir so the desktop never
// reads a half-written wallpaper. The previous output is removed after a
// successful switch.
func NextOutputFile() (AbsolutePath, error) {
	c, err := GetConfig()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(c.OutputDir, 0755)
	if err != nil {
		return "", fmt.Errorf(
			"Error creating OutputDir [%s]: %s", c.OutputDir, err)
	}

	dir, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "wallpaper-*."+outputFormat)
	if f != nil {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return "", err
	}

	return f.Name(), nil
}

// NextTempFile allocates a preview output file in the temporary
// directory, which Cleanup removes on exit. Keeps throwaway renders out
// of OutputDir.
func NextTempFile() (AbsolutePath, error) {
	dir, err := TempDir()
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "preview-*."+outputFormat)
	if f != nil {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return "", err
	}

	return f.Name(), nil
}

// SetWallpaper applies the composed file across every monitor. The
// mechanism depends on the detected environment; the composition logic
// never does, it only hands over a path.
func SetWallpaper(monitors []*Monitor, wallpaper AbsolutePath) error {
	if len(monitors) == 0 {
		return nil
	}

	c, err := GetConfig()
	if err != nil {
		return err
	}

	s := monitors[0].session
	if s == nil {
		s = &session{env: gnome}
	}

	if s.display != "" {
		os.Setenv("DISPLAY", s.display)
	}

	// Per-user DBUS session assumed
	err = setDBUSAddress()
	if err != nil {
		return err
	}

	if s.env == gnome {
		return setGnomeWallpaper(wallpaper, c)
	}

	if s.env == i3 || s.env == unknown {
		return setFehWallpaper(wallpaper)
	}

	return errors.New("Not yet implemented")
}

func setGnomeWallpaper(wallpaper AbsolutePath, c *Config) error {
	uriKey := "picture-uri"
	// GNOME reads the wallpaper from a different key under the dark theme
	scheme, err := runBash(`
		gsettings get org.gnome.desktop.interface color-scheme
	`)
	if err == nil && strings.Contains(scheme, "prefer-dark") {
		uriKey = "picture-uri-dark"
	}

	oldWall, err := runBash(
		`gsettings get org.gnome.desktop.background ` + uriKey)
	if err != nil {
		return err
	}

	_, err = runBash(`
		gsettings set org.gnome.desktop.background picture-options spanned
		gsettings set org.gnome.desktop.background ` + uriKey +
		` "file://` + wallpaper + `"
	`)
	if err != nil {
		return err
	}

	oldWall = strings.TrimPrefix(strings.Trim(oldWall, "'\n"), "file://")
	// Only remove files we own
	if filepath.Dir(oldWall) == c.OutputDir {
		// This could have already been removed, bury any errors
		_ = os.Remove(oldWall)
	}

	return nil
}

func setFehWallpaper(wallpaper AbsolutePath) error {
	// The canvas already spans the virtual desktop, so feh must treat it
	// as one screen
	cmd := exec.Command("feh", "--no-xinerama", "--bg-fill", wallpaper)
	cmd.SysProcAttr = sysProcAttr
	return cmd.Run()
}

func runBash(cmd string) (string, error) {
	// See http://redsymbol.net/articles/unofficial-bash-strict-mode/
	command := `
		set -euo pipefail
		IFS=$'\n\t'
		` + cmd + "\n"

	bash := exec.Command("/usr/bin/env", "bash")
	bash.Stdin = strings.NewReader(command)
	bash.Stderr = os.Stderr

	bashOut, err := bash.Output()
	return string(bashOut), err
}
