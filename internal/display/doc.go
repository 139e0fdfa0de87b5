// Package display renders terminal feedback for featverify commands:
// per-file progress while directories are compared and boxed warnings for
// problems that do not fail a run (unpaired files, duplicate case keys).
//
//	progress := display.NewProgressIndicator(os.Stdout, len(pairs))
//	progress.Start()
//	for _, p := range pairs {
//	    progress.Step(p.Name, passed)
//	}
//	progress.Complete()
//
// Colors come from fatih/color and are enabled only when the writer is a
// terminal. All functions take an io.Writer so output can be captured.
package display
