package draw

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"automata/internal/automaton"
	"automata/internal/cfg"
	"automata/internal/config"
	"automata/internal/logutil"
)

// Drawer writes DOT files into an output directory and, when an image
// format is configured and the dot binary is on PATH, renders them.
type Drawer struct {
	fs  afero.Fs
	cfg config.Draw
}

func New(fs afero.Fs, cfg config.Draw) *Drawer {
	return &Drawer{fs: fs, cfg: cfg}
}

// DrawMachine writes <name>.dot for m and returns the paths written.
func (d *Drawer) DrawMachine(ctx context.Context, name string, m automaton.Machine) ([]string, error) {
	var buf bytes.Buffer
	if err := WriteMachineDOT(&buf, m); err != nil {
		return nil, err
	}
	return d.emit(ctx, name, buf.Bytes())
}

// DrawGrammar writes <name>.dot for the dependency graph of g and returns
// the paths written.
func (d *Drawer) DrawGrammar(ctx context.Context, name string, g *cfg.Grammar) ([]string, error) {
	var buf bytes.Buffer
	if err := WriteGrammarDOT(&buf, g); err != nil {
		return nil, err
	}
	return d.emit(ctx, name, buf.Bytes())
}

func (d *Drawer) emit(ctx context.Context, name string, dot []byte) ([]string, error) {
	if err := d.fs.MkdirAll(d.cfg.OutputDir, os.ModePerm); err != nil {
		return nil, errors.Annotatef(err, "create %s", d.cfg.OutputDir)
	}
	dotPath := filepath.Join(d.cfg.OutputDir, name+".dot")
	if err := afero.WriteFile(d.fs, dotPath, dot, 0o644); err != nil {
		return nil, errors.Annotatef(err, "write %s", dotPath)
	}
	paths := []string{dotPath}
	if d.cfg.Format == "" || d.cfg.Format == "dot" {
		return paths, nil
	}

	bin, err := exec.LookPath(d.cfg.DotBinary)
	if err != nil {
		logutil.BgLogger().Warn("dot binary not found, only the DOT file is written",
			zap.String("binary", d.cfg.DotBinary),
			zap.String("path", dotPath))
		return paths, nil
	}
	img, err := render(ctx, bin, d.cfg.Format, dot)
	if err != nil {
		return paths, err
	}
	imgPath := filepath.Join(d.cfg.OutputDir, name+"."+d.cfg.Format)
	if err := afero.WriteFile(d.fs, imgPath, img, 0o644); err != nil {
		return paths, errors.Annotatef(err, "write %s", imgPath)
	}
	return append(paths, imgPath), nil
}

func render(ctx context.Context, bin, format string, dot []byte) ([]byte, error) {
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+format)
	cmd.Stdin = bytes.NewReader(dot)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Annotatef(err, "dot -T%s: %s", format, stderr.String())
	}
	return out.Bytes(), nil
}
