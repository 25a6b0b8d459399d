// Package host provides an interactive command-line shell for assembling
// programs, loading them into memory, and driving the CPU step function
// by hand or to completion: a small developer tool built on the same
// assembler and CPU packages a program would use directly.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/dextercai/mc8/asm"
	"github.com/dextercai/mc8/isa"
	"github.com/dextercai/mc8/machine"
)

// Host holds one running machine instance and the I/O state of the
// interactive shell wrapped around it.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    *settings

	mem machine.Memory
	reg machine.Registers

	pendingData    machine.InputData
	pendingPortSet bool
	interruptLine  bool

	quit bool
}

// New creates a host with a freshly reset machine.
func New() *Host {
	return &Host{
		settings: newSettings(),
		reg:      machine.NewRegisters(),
	}
}

// RunCommands reads commands from r and writes responses to w until EOF
// or a quit command. When interactive is true, a prompt is printed
// before each line is read.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	defer h.output.Flush()

	for !h.quit {
		if h.interactive {
			h.printf("* ")
			h.output.Flush()
		}
		if !h.input.Scan() {
			break
		}
		line := strings.TrimSpace(h.input.Text())
		if err := h.processCommand(line); err != nil {
			h.printf("ERROR: %v\n", err)
		}
		h.output.Flush()
	}
}

func (h *Host) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			return err
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		h.displayCommands(c.Command.Subtree)
		return nil
	}

	h.lastCmd = &c
	handler := c.Command.Data.(func(*Host, cmd.Selection) error)
	return handler(h, c)
}

func (h *Host) displayCommands(t *cmd.Tree) {
	h.printf("%s commands:\n", t.Title)
	for _, e := range t.Commands {
		if e.Brief != "" {
			h.printf("    %-15s  %s\n", e.Name, e.Brief)
		}
	}
}

func (h *Host) printf(format string, args ...interface{}) { fmt.Fprintf(h.output, format, args...) }
func (h *Host) println(args ...interface{})                { fmt.Fprintln(h.output, args...) }

// Break is called by cmd/mc8 on Ctrl-C. It prints a break notice only;
// it does not stop a run command that is in progress.
func (h *Host) Break() {
	h.println("\nBreak.")
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(cmds)
		return nil
	}
	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		return err
	}
	if s.Command.Usage != "" {
		h.printf("Usage: %s\n", s.Command.Usage)
	}
	if s.Command.Description != "" {
		h.printf("%s\n", s.Command.Description)
	}
	return nil
}

func (h *Host) cmdAssembleFile(c cmd.Selection) error {
	if len(c.Args) != 1 {
		return errors.New("usage: assemble file <filename>")
	}
	src, err := os.ReadFile(c.Args[0])
	if err != nil {
		return err
	}

	result, err := asm.Assemble(string(src))
	if err != nil {
		return err
	}

	h.mem = machine.NewMemoryFromImage(result.Image)
	h.reg = machine.NewRegisters()
	h.printf("Assembled %d statements.\n", len(result.StatementMap))

	if h.settings.VerboseLoad {
		for addr := 0; addr < isa.ImageSize; addr++ {
			if stmt, ok := result.StatementMap[addr]; ok {
				h.printf("  %02X: %s\n", addr, stmt.Mnemonic)
			}
		}
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		return errors.New("usage: load <filename> [<address>]")
	}
	data, err := os.ReadFile(c.Args[0])
	if err != nil {
		return err
	}

	addr := 0
	if len(c.Args) > 1 {
		addr, err = strconv.Atoi(c.Args[1])
		if err != nil {
			return err
		}
	}

	for i, b := range data {
		if addr+i >= isa.ImageSize {
			return errors.New("file exceeds image size")
		}
		h.mem.Store(byte(addr+i), b)
	}
	return nil
}

func (h *Host) fmtByte(b byte) string {
	if h.settings.HexMode {
		return fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%-3d", b)
}

func (h *Host) cmdRegisters(c cmd.Selection) error {
	h.printf("AL=%s BL=%s CL=%s DL=%s IP=%s SP=%s  Z=%v O=%v S=%v I=%v\n",
		h.fmtByte(h.reg.GPR[isa.AL]), h.fmtByte(h.reg.GPR[isa.BL]),
		h.fmtByte(h.reg.GPR[isa.CL]), h.fmtByte(h.reg.GPR[isa.DL]),
		h.fmtByte(h.reg.IP), h.fmtByte(h.reg.SP),
		h.reg.Flag(isa.Zero), h.reg.Flag(isa.Overflow), h.reg.Flag(isa.Sign), h.reg.Flag(isa.Interrupt))
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	addr := 0
	count := h.settings.MemDumpBytes
	var err error
	if len(c.Args) > 0 {
		addr, err = strconv.Atoi(c.Args[0])
		if err != nil {
			return err
		}
	}
	if len(c.Args) > 1 {
		count, err = strconv.Atoi(c.Args[1])
		if err != nil {
			return err
		}
	}
	for i := 0; i < count && addr+i < isa.ImageSize; i += 16 {
		h.printf("%02X:", addr+i)
		for j := 0; j < 16 && i+j < count && addr+i+j < isa.ImageSize; j++ {
			h.printf(" %s", h.fmtByte(h.mem.Load(byte(addr+i+j))))
		}
		h.println()
	}
	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	return h.step()
}

func (h *Host) step() error {
	var sig machine.Signals
	if h.pendingPortSet {
		sig.Input.Data = h.pendingData
		sig.Input.HasData = true
		h.pendingPortSet = false
	}
	if h.interruptLine {
		sig.Input.Interrupt = true
		h.interruptLine = false
	}

	mem, reg, out, err := machine.Step(h.mem, h.reg, sig)
	h.mem, h.reg = mem, reg
	if err != nil {
		return err
	}
	if out.Halted {
		h.println("Halted.")
		return nil
	}
	if out.HasRequiredInput {
		h.printf("Waiting for input on port %d.\n", out.RequiredInputPort)
	}
	if out.HasOutputData {
		h.printf("Output on port %d: %02X\n", out.Data.Port, out.Data.Content)
	}
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	for i := 0; i < h.settings.MaxStepLines; i++ {
		var sig machine.Signals
		mem, reg, out, err := machine.Step(h.mem, h.reg, sig)
		h.mem, h.reg = mem, reg
		if err != nil {
			return err
		}
		if out.Halted {
			h.println("Halted.")
			return nil
		}
		if out.HasRequiredInput {
			h.printf("Waiting for input on port %d.\n", out.RequiredInputPort)
			return nil
		}
	}
	return errors.New("step budget exceeded")
}

func (h *Host) cmdPort(c cmd.Selection) error {
	if len(c.Args) != 2 {
		return errors.New("usage: port <number> <byte>")
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return err
	}
	if n < 0 || n > isa.MaxPort {
		return fmt.Errorf("port %d out of range", n)
	}
	v, err := strconv.ParseUint(c.Args[1], 16, 8)
	if err != nil {
		return err
	}
	h.pendingData = machine.InputData{Port: byte(n), Content: byte(v)}
	h.pendingPortSet = true
	return nil
}

func (h *Host) cmdInterrupt(c cmd.Selection) error {
	h.interruptLine = true
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.reg = machine.NewRegisters()
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.settings.Display(h.output)
		return nil
	}
	if len(c.Args) != 2 {
		return errors.New("usage: set [<var> <value>]")
	}

	kind, ok := h.settings.Kind(c.Args[0])
	if !ok {
		return fmt.Errorf("unknown setting %q", c.Args[0])
	}

	switch kind {
	case reflect.Bool:
		v, err := strconv.ParseBool(c.Args[1])
		if err != nil {
			return err
		}
		return h.settings.Set(c.Args[0], v)
	default:
		v, err := strconv.Atoi(c.Args[1])
		if err != nil {
			return err
		}
		return h.settings.Set(c.Args[0], v)
	}
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	h.quit = true
	return nil
}
