package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"

	"github.com/ccllang/ccl"
	"github.com/ccllang/ccl/internal/ast"
)

const usage = `cclcheck - the CCL semantic checker

Usage:
  cclcheck check [-ast] [-table] <file.ccl>  Parse and type-check a method,
                                     reporting the first diagnostic raised,
                                     or the resolved symbol table on success.
  cclcheck repl                     Start an interactive session: type a
                                     method body, finish with a blank line,
                                     and the result is checked immediately.

Options:
  -ast     Print the parsed syntax tree before checking it.
  -table   Render the resolved symbol table as a bordered table instead of
           the plain name/type columns.

Examples:
  cclcheck check charge.ccl
  cclcheck check -ast charge.ccl
  cclcheck check -table charge.ccl
  cclcheck repl
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		os.Exit(handleCheck(os.Args[2:]))
	case "repl":
		os.Exit(runREPL())
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func handleCheck(args []string) int {
	showAST := false
	showTable := false
	var filePath string
	for _, arg := range args {
		switch arg {
		case "-ast":
			showAST = true
		case "-table":
			showTable = true
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				return 1
			}
			filePath = arg
		}
	}
	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		return 1
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		return 1
	}

	return reportCheck(filepath.Base(filePath), string(source), showAST, showTable)
}

// reportCheck runs the checker over source and prints either the first
// diagnostic or the resolved symbol table, the way intentc's "check"
// command reports a parse/type error against the offending file. When
// showAST is set, the parsed syntax tree is printed first, the same tree
// the checker goes on to analyse.
func reportCheck(name, source string, showAST, showTable bool) int {
	if showAST {
		method, pdiags := ccl.Parse(source)
		if pdiags.HasErrors() {
			fmt.Fprintf(os.Stderr, "%s\n", pdiags.Format(name))
			return 1
		}
		fmt.Print(ast.Print(method))
	}

	analysis, diags := ccl.Check(source)
	if diags != nil {
		fmt.Fprintf(os.Stderr, "%s\n", diags.Format(name))
		return 1
	}

	fmt.Println("OK")
	names := append([]string{}, analysis.Result.Names...)
	sort.Strings(names)
	if showTable {
		printSymbolTable(analysis, names)
		return 0
	}
	for _, n := range names {
		sym := analysis.Result.Global.Resolve(n)
		fmt.Printf("%-12s %s\n", n, sym.Type.String())
	}
	return 0
}

// printSymbolTable renders the resolved top-level symbols as a bordered
// table, one row per name, for the "-table" option.
func printSymbolTable(analysis *ccl.Analysis, names []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Kind", "Type"})
	for _, n := range names {
		sym := analysis.Result.Global.Resolve(n)
		table.Append([]string{n, sym.Kind.String(), sym.Type.String()})
	}
	table.Render()
}

const (
	historyFile = ".cclcheck_history"
	promptMain  = "ccl> "
	promptCont  = "...  "
	banner      = "cclcheck REPL — finish a method with a blank line, Ctrl+D to exit."
	helpText    = `
REPL commands:
  :help          Show this help
  :quit          Exit the REPL
  :load <file>   Check a file
  :ast           Toggle printing the parsed syntax tree before each check
  :table         Toggle rendering the symbol table as a bordered table
`
)

func runREPL() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	showAST := false
	showTable := false
	for {
		code, ok := readMethod(ln)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if handleReplCommand(trimmed, &showAST, &showTable) {
				break
			}
			continue
		}

		reportCheck("repl", code, showAST, showTable)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " \\ "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

func handleReplCommand(line string, showAST, showTable *bool) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Print(helpText)
	case ":quit", ":exit":
		return true
	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		src, err := os.ReadFile(fields[1])
		if err != nil {
			fmt.Printf("cannot read %s: %v\n", fields[1], err)
			return false
		}
		reportCheck(filepath.Base(fields[1]), string(src), *showAST, *showTable)
	case ":ast":
		*showAST = !*showAST
		state := "off"
		if *showAST {
			state = "on"
		}
		fmt.Printf("AST printing %s.\n", state)
	case ":table":
		*showTable = !*showTable
		state := "off"
		if *showTable {
			state = "on"
		}
		fmt.Printf("Table output %s.\n", state)
	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

// readMethod accumulates lines until a blank one, the REPL's stand-in
// for a method boundary: CCL has no statement terminator, so the
// checker always needs the whole body plus its "where" clause at once.
func readMethod(ln *liner.State) (string, bool) {
	var lines []string
	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), true
			}
			return "", false
		}
		if strings.TrimSpace(line) == "" && len(lines) > 0 {
			return strings.Join(lines, "\n"), true
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
}
