// Command fresh runs the editor: a local bubbletea TUI by default, or an
// SSH listener when --ssh-listen is given. It replaces the removed
// cmd/vision3, following the same minimal flag.Parse() wiring style —
// one binary, one run mode, configuration loaded up front and logged
// before anything touches a terminal.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	gssh "github.com/gliderlabs/ssh"

	"github.com/elaurentium/fresh/internal/ansi"
	"github.com/elaurentium/fresh/internal/config"
	"github.com/elaurentium/fresh/internal/logging"
	"github.com/elaurentium/fresh/internal/sshserver"
)

func main() {
	var (
		outputModeFlag string
		sshListenFlag  string
		configPath     string
		debugFlag      bool
	)
	flag.StringVar(&outputModeFlag, "output-mode", "auto", "Terminal output mode: auto, utf8, cp437")
	flag.StringVar(&sshListenFlag, "ssh-listen", "", "Address to listen for SSH connections on (e.g. :2222); local TUI mode if empty")
	flag.StringVar(&configPath, "config", "", "Directory containing fresh.yaml (defaults unused if absent)")
	flag.BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	flag.Parse()

	logging.DebugEnabled = debugFlag

	mode, err := parseOutputMode(outputModeFlag)
	if err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
	logging.Info("output mode set to %s", outputModeFlag)

	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Warn("failed to load configuration, using defaults: %v", err)
	}

	basePath, err := os.Getwd()
	if err != nil {
		logging.Error("failed to get working directory: %v", err)
		os.Exit(1)
	}

	path := flag.Arg(0)
	if path == "" {
		path = "scratch.txt"
	}
	content, err := readOrCreate(path)
	if err != nil {
		logging.Error("failed to open %s: %v", path, err)
		os.Exit(1)
	}

	sess := newEditorSession(path, content, cfg)

	pluginDir := filepath.Join(basePath, "plugins")
	if watcher, err := watchPlugins(pluginDir, sess); err != nil {
		logging.Debug("plugin manifest watch disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if sshListenFlag != "" {
		runSSHServer(sshListenFlag, basePath, mode, cfg, sess)
		return
	}

	runLocal(mode, sess)
}

func parseOutputMode(flagVal string) (ansi.OutputMode, error) {
	switch strings.ToLower(flagVal) {
	case "auto", "":
		return ansi.OutputModeAuto, nil
	case "utf8":
		return ansi.OutputModeUTF8, nil
	case "cp437":
		return ansi.OutputModeCP437, nil
	default:
		return ansi.OutputModeAuto, fmt.Errorf("invalid --output-mode value %q: must be auto, utf8, or cp437", flagVal)
	}
}

func readOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if os.IsNotExist(err) {
		return "", nil
	}
	return "", err
}

func runLocal(mode ansi.OutputMode, sess *editorSession) {
	p := tea.NewProgram(newModel(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("program exited with error: %v", err)
		os.Exit(1)
	}
}

func runSSHServer(addr, basePath string, mode ansi.OutputMode, cfg config.Config, sess *editorSession) {
	hostKeyPath := filepath.Join(basePath, "data", "ssh_host_ed25519_key")
	if err := ensureHostKey(hostKeyPath); err != nil {
		logging.Error("failed to provision SSH host key: %v", err)
		os.Exit(1)
	}

	host, port := splitHostPort(addr)
	srv, err := sshserver.NewServer(sshserver.Config{
		HostKeyPath: hostKeyPath,
		Host:        host,
		Port:        port,
		Version:     "fresh",
		SessionHandler: func(s gssh.Session) {
			handleSSHSession(s, mode, sess)
		},
	})
	if err != nil {
		logging.Error("failed to start SSH server: %v", err)
		os.Exit(1)
	}

	logging.Info("listening for SSH connections on %s:%d", host, port)
	if err := srv.ListenAndServe(); err != nil {
		logging.Error("SSH server stopped: %v", err)
	}
}

// ensureHostKey generates an ed25519 host key via ssh-keygen if none
// exists yet, mirroring cmd/install's own "ssh-keygen -t ed25519"
// provisioning step rather than hand-rolling key generation.
func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cmd := exec.Command("ssh-keygen", "-t", "ed25519", "-f", path, "-N", "")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 22
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 22
	}
	return host, port
}

// watchPlugins watches pluginDir for manifest files appearing or
// disappearing, registering or crashing the matching plugin name in
// sess's bridge. Generalized from the removed config_watcher.go hot-
// reload pattern: fsnotify was "config file changed" there, "plugin
// binary appeared/disappeared" here.
func watchPlugins(pluginDir string, sess *editorSession) (*fsnotify.Watcher, error) {
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(pluginDir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				switch {
				case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
					logging.Info("plugin manifest %s appeared, registering", name)
					sess.registerPlugin(name)
				case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					logging.Warn("plugin manifest %s disappeared, marking crashed", name)
					sess.crashPlugin(name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("plugin manifest watcher error: %v", err)
			case <-time.After(time.Hour):
				// keep the select alive even on an idle plugin directory
			}
		}
	}()
	return watcher, nil
}
