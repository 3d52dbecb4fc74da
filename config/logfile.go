/*
NAME
  logfile.go

DESCRIPTION
  logfile.go implements NewRotatingLogger, adapted from the teacher's
  cmd/rv/main.go pattern of wrapping a gopkg.in/natefinch/lumberjack.v2
  logger as the file-destination half of an io.Writer fan-out passed to
  logging.New.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingLogFile holds the size/age-based rotation parameters the
// teacher's cmd/rv/main.go hard-codes as package constants (logMaxSize,
// logMaxBackup, logMaxAge), exposed here as configurable fields instead.
type RotatingLogFile struct {
	// Path is the log file's location.
	Path string
	// MaxSizeMB is the size in megabytes a log file reaches before it is
	// rotated.
	MaxSizeMB int
	// MaxBackups is the number of old rotated files to retain.
	MaxBackups int
	// MaxAgeDays is the number of days to retain old rotated files.
	MaxAgeDays int
}

// NewRotatingLogger returns an io.Writer backed by a size/age-rotated log
// file, for use as (one arm of) the destination passed to
// github.com/ausocean/utils/logging.New, exactly as cmd/rv/main.go
// constructs its fileLog before fanning it out with io.MultiWriter.
func NewRotatingLogger(f RotatingLogFile) io.Writer {
	return &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
	}
}
