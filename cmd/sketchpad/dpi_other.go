//go:build !windows

package main

import "log/slog"

func logDPIInfo(*slog.Logger) {}
