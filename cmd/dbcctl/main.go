// Command dbcctl is a thin CLI layered on the candbc/dbc core. It is
// an external collaborator, not part of the core's scope: it only
// calls dbc.Parse/dbc.ParseWithOptions, (*dbc.Dbc).ToText, and
// dbc.Decode, and keeps
// exactly one parsed file cached on disk between invocations so that
// `print`/`describe`/`decode` don't need the source file again.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/candbc/dbc/dbc"
	"github.com/candbc/dbc/internal/clog"
	"github.com/candbc/dbc/internal/cliconfig"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		clog.Logger.Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	cfg, err := cliconfig.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := clog.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	cachePath, err := resolveCachePath(cfg)
	if err != nil {
		return err
	}

	switch args[0] {
	case "parse":
		return cmdParse(args[1:], cfg, cachePath)
	case "print":
		return cmdPrint(cachePath)
	case "describe":
		return cmdDescribe(cachePath)
	case "decode":
		return cmdDecode(args[1:], cachePath)
	case "clear":
		return cmdClear(cachePath)
	default:
		return usageError()
	}
}

func usageError() error {
	return errors.New("usage: dbcctl <parse <file> | print | describe | decode <id>#<hexpayload> | clear>")
}

func configPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dbcctl", "config.toml")
	}
	return ""
}

// resolveCachePath returns the path dbcctl stores its one cached,
// already-serialized Dbc at: cfg.CachePath if set, else
// os.UserCacheDir()/dbcctl/last.dbc.
func resolveCachePath(cfg cliconfig.Config) (string, error) {
	if cfg.CachePath != "" {
		return cfg.CachePath, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return filepath.Join(dir, "dbcctl", "last.dbc"), nil
}

func cmdParse(args []string, cfg cliconfig.Config, cachePath string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: dbcctl parse <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading %s: %w", fs.Arg(0), err)
	}

	d, err := dbc.ParseWithOptions(data, cfg.Options())
	if err != nil {
		return fmt.Errorf("parsing %s: %w", fs.Arg(0), err)
	}

	if err := writeCache(cachePath, d.ToText()); err != nil {
		return err
	}

	clog.Logger.WithField("messages", d.Messages().Len()).Info("parsed dbc file")
	fmt.Printf("parsed %d message(s), %d node(s)\n", d.Messages().Len(), d.Nodes().Len())
	return nil
}

func cmdPrint(cachePath string) error {
	d, err := loadCached(cachePath)
	if err != nil {
		return err
	}
	fmt.Print(d.ToText())
	return nil
}

func cmdDescribe(cachePath string) error {
	d, err := loadCached(cachePath)
	if err != nil {
		return err
	}
	fmt.Printf("version: %s\n", d.Version().Text())
	fmt.Printf("nodes: %s\n", strings.Join(d.Nodes().Names(), ", "))
	fmt.Printf("messages: %d\n", d.Messages().Len())
	for _, m := range d.Messages().All() {
		fmt.Printf("  %s (id=%#x dlc=%d sender=%s signals=%d)\n",
			m.Name(), m.ID(), m.DLC(), m.Sender(), len(m.Signals()))
	}
	return nil
}

// cmdDecode parses "<id>#<hexpayload>", where id is decimal or
// 0x-prefixed hex and may be suffixed with 'x' to mark an extended
// (29-bit) CAN ID, e.g. "256#0102030405060708" or "0x1fffffffx#00".
func cmdDecode(args []string, cachePath string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: dbcctl decode <id>#<hexpayload>")
	}

	id, isExtended, payload, err := parseDecodeArg(fs.Arg(0))
	if err != nil {
		return err
	}

	d, err := loadCached(cachePath)
	if err != nil {
		return err
	}

	signals, err := dbc.Decode(d, id, payload, isExtended)
	if err != nil {
		return fmt.Errorf("decoding id %#x: %w", id, err)
	}
	for _, s := range signals {
		fmt.Printf("%s = %g\n", s.Name, s.Value)
	}
	return nil
}

func parseDecodeArg(arg string) (id uint32, isExtended bool, payload []byte, err error) {
	idPart, hexPart, ok := strings.Cut(arg, "#")
	if !ok {
		return 0, false, nil, errors.New("expected <id>#<hexpayload>")
	}

	idPart = strings.TrimSpace(idPart)
	if strings.HasSuffix(idPart, "x") || strings.HasSuffix(idPart, "X") {
		isExtended = true
		idPart = idPart[:len(idPart)-1]
	}
	parsed, err := strconv.ParseUint(idPart, 0, 32)
	if err != nil {
		return 0, false, nil, fmt.Errorf("invalid id %q: %w", idPart, err)
	}
	id = uint32(parsed)

	payload, err = hex.DecodeString(strings.TrimSpace(hexPart))
	if err != nil {
		return 0, false, nil, fmt.Errorf("invalid hex payload %q: %w", hexPart, err)
	}
	return id, isExtended, payload, nil
}

func cmdClear(cachePath string) error {
	if err := os.Remove(cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

func writeCache(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

func loadCached(path string) (*dbc.Dbc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("no parsed dbc cached; run 'dbcctl parse <file>' first")
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	d, err := dbc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reparsing cached dbc: %w", err)
	}
	return d, nil
}
