// Command calctl is a terminal client for the marketing calendar.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/fatih/color"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/cli"
)

func main() {
	if err := cli.New().ExecuteContext(context.Background()); err != nil {
		msg := err.Error()
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", msg)
		os.Exit(1)
	}
}
