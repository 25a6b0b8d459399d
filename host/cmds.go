package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("mc8")

	root.AddCommand(cmd.Command{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (func(*Host, cmd.Selection) error)((*Host).cmdHelp),
	})

	// Assemble commands.
	ass := cmd.NewTree("Assemble")
	root.AddCommand(cmd.Command{
		Name:    "assemble",
		Brief:   "Assemble commands",
		Subtree: ass,
	})
	ass.AddCommand(cmd.Command{
		Name:  "file",
		Brief: "Assemble a file from disk and load it into memory",
		Description: "Run the assembler on the specified file and, if" +
			" successful, load the resulting image into memory at address 0.",
		Usage: "assemble file <filename>",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdAssembleFile),
	})

	root.AddCommand(cmd.Command{
		Name:  "load",
		Brief: "Load a binary file into memory",
		Description: "Load the contents of a raw binary file into memory," +
			" starting at the given address (default 0).",
		Usage: "load <filename> [<address>]",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdLoad),
	})

	root.AddCommand(cmd.Command{
		Name:  "registers",
		Brief: "Display register contents",
		Description: "Display the current contents of all CPU registers and" +
			" status flags.",
		Usage: "registers",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdRegisters),
	})

	// Memory commands.
	mem := cmd.NewTree("Memory")
	root.AddCommand(cmd.Command{
		Name:    "memory",
		Brief:   "Memory commands",
		Subtree: mem,
	})
	mem.AddCommand(cmd.Command{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdMemoryDump),
	})

	root.AddCommand(cmd.Command{
		Name:  "run",
		Brief: "Run the CPU until it halts or requests input",
		Description: "Step the CPU repeatedly until it halts, requests port" +
			" input it cannot yet satisfy, or the step budget in the" +
			" maxsteplines setting is exhausted.",
		Usage: "run",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdRun),
	})

	step := cmd.NewTree("Step")
	root.AddCommand(cmd.Command{
		Name:    "step",
		Brief:   "Step the CPU",
		Subtree: step,
	})
	step.AddCommand(cmd.Command{
		Name:  "in",
		Brief: "Step one instruction",
		Description: "Step the CPU by exactly one instruction.",
		Usage: "step in",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdStepIn),
	})

	root.AddCommand(cmd.Command{
		Name:  "port",
		Brief: "Deliver a byte to a port the CPU is waiting on",
		Description: "Satisfy a pending IN instruction by supplying the" +
			" byte the CPU is waiting to read from the given port.",
		Usage: "port <number> <byte>",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdPort),
	})

	root.AddCommand(cmd.Command{
		Name:  "interrupt",
		Brief: "Raise the hardware interrupt line for the next step",
		Usage: "interrupt",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdInterrupt),
	})

	root.AddCommand(cmd.Command{
		Name:  "reset",
		Brief: "Reset registers to their power-on state",
		Usage: "reset",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdReset),
	})

	root.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdSet),
	})

	root.AddCommand(cmd.Command{
		Name:  "quit",
		Brief: "Quit the program",
		Usage: "quit",
		Data:  (func(*Host, cmd.Selection) error)((*Host).cmdQuit),
	})

	root.AddShortcut("a", "assemble file")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step in")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "registers")

	cmds = root
}
