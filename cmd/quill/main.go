package main

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/quillhq/quill/internal/version"
)

func main() {
	ctx := context.Background()
	cmd := newRootCmd()

	// Custom error handler that suppresses broken pipes; they just mean the
	// reader (head, less) closed early and the render already stopped.
	errorHandler := func(w io.Writer, styles fang.Styles, err error) {
		if errors.Is(err, syscall.EPIPE) {
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}

	if err := fang.Execute(ctx, cmd,
		fang.WithVersion(version.Version),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(1)
	}
}
