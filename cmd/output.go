package cmd

import (
	"io"
	"os"
)

// Bound to rootCmd in init; referencing rootCmd here directly would form an
// initialization cycle through its RunE.
var (
	outWriterFunc = func() io.Writer { return os.Stdout }
	errWriterFunc = func() io.Writer { return os.Stderr }
)

func init() {
	outWriterFunc = rootCmd.OutOrStdout
	errWriterFunc = rootCmd.ErrOrStderr
}

func outWriter() io.Writer {
	return outWriterFunc()
}

func errWriter() io.Writer {
	return errWriterFunc()
}
