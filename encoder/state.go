/*
NAME
  state.go

DESCRIPTION
  state.go defines the Encoder Base public lifecycle state machine:
  IDLE -> STARTING -> RUNNING -> STOPPING -> IDLE.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encoder implements the codec-agnostic asynchronous video encoder
// engine: a shared state machine and output-ring (Base) composed with one
// of three concrete backends (software, MLU200, MLU300).
package encoder

// State is the Encoder Base's public lifecycle state.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}
