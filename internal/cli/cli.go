package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"jetnotes/internal/notes"
	"jetnotes/internal/repository"
)

// Store is the repository surface the CLI needs
type Store interface {
	repository.Repository
	GetNote(ctx context.Context, id int64) (notes.NoteModel, error)
}

type runner struct {
	ctx   context.Context
	store Store
	out   io.Writer
	err   io.Writer
}

// Run executes the CLI with the given arguments and returns the exit code.
// The first argument should be the namespace ("note" or "colors").
func Run(ctx context.Context, args []string, store Store) int {
	return run(ctx, args, store, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, store Store, out, errOut io.Writer) int {
	r := &runner{ctx: ctx, store: store, out: out, err: errOut}

	if len(args) == 0 {
		r.printUsage()
		return 1
	}

	namespace := args[0]
	subArgs := args[1:]

	switch namespace {
	case "note", "notes", "n":
		return r.runNoteCommand(subArgs)
	case "colors":
		return r.runColors()
	case "help", "-h", "--help":
		r.printUsage()
		return 0
	default:
		fmt.Fprintf(r.err, "Unknown command: %s\n", namespace)
		r.printUsage()
		return 1
	}
}

func (r *runner) runNoteCommand(args []string) int {
	if len(args) == 0 {
		r.printNoteUsage()
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "add", "a":
		return r.runAdd(cmdArgs)
	case "list", "ls", "l":
		return r.runList(cmdArgs)
	case "check":
		return r.runCheck(cmdArgs, true)
	case "uncheck":
		return r.runCheck(cmdArgs, false)
	case "trash", "t":
		return r.runTrash(cmdArgs)
	case "restore", "r":
		return r.runRestore(cmdArgs)
	case "delete", "rm", "del":
		return r.runDelete(cmdArgs)
	case "export":
		return r.runExport(cmdArgs)
	case "import":
		return r.runImport(cmdArgs)
	case "seed":
		return r.runSeed(cmdArgs)
	case "help", "-h", "--help":
		r.printNoteUsage()
		return 0
	default:
		fmt.Fprintf(r.err, "Unknown note command: %s\n", command)
		r.printNoteUsage()
		return 1
	}
}

func (r *runner) runColors() int {
	colors, err := r.store.Colors(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading colors: %v\n", err)
		return 1
	}
	for _, c := range colors {
		fmt.Fprintf(r.out, "%2d  %s  %s\n", c.ID, c.Hex, c.Name)
	}
	return 0
}

func (r *runner) printUsage() {
	fmt.Fprintln(r.out, `jetnotes - Color-tagged notes with a trash can

Usage: jetnotes [flags] [command] [arguments]

Commands:
  note        Note management commands
  colors      List available note colors

Flags:
  -d, --data-dir <dir>   Data directory (database and debug.log)
      --db <file>        Database file, relative to the data directory
      --view <name>      Initial view: notes, trash
      --env <file>       Load environment variables from file

Running jetnotes without arguments launches the interactive TUI.
Use "jetnotes note help" for note subcommands.`)
}

func (r *runner) printNoteUsage() {
	fmt.Fprintln(r.out, `jetnotes note - Note management commands

Usage: jetnotes note <command> [arguments]

Commands:
  add, a        Add a new note
                jetnotes note add "Title" -c "Content" --color Blue --check

  list, ls, l   List notes
                jetnotes note list            # Notes not in trash
                jetnotes note list --trash    # Notes in trash
                jetnotes note list --all      # Everything

  check         Check off a note          jetnotes note check <id>
  uncheck       Uncheck a note            jetnotes note uncheck <id>
  trash, t      Move a note to trash      jetnotes note trash <id>
  restore, r    Restore notes from trash  jetnotes note restore <id>...
  delete, rm    Permanently delete notes  jetnotes note delete <id>...

  export        Write notes as markdown   jetnotes note export <dir>
  import        Read markdown notes       jetnotes note import <dir>
  seed          Add random notes          jetnotes note seed [count]

  help          Show this help message`)
}
