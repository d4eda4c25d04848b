package tui

import (
	"fmt"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdDoor commandKind = iota
	cmdEnd
	cmdNext
	cmdBuy
	cmdUpgrade
	cmdUse
	cmdForfeit
	cmdRestart
	cmdQuit
)

type command struct {
	kind commandKind
	arg  int // 1-based index for buy and use
}

var commandWords = map[string]commandKind{
	"door":     cmdDoor,
	"d":        cmdDoor,
	"end":      cmdEnd,
	"e":        cmdEnd,
	"next":     cmdNext,
	"n":        cmdNext,
	"buy":      cmdBuy,
	"b":        cmdBuy,
	"upgrade":  cmdUpgrade,
	"u":        cmdUpgrade,
	"use":      cmdUse,
	"/forfeit": cmdForfeit,
	"/restart": cmdRestart,
	"/quit":    cmdQuit,
}

func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	kind, ok := commandWords[fields[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}

	c := command{kind: kind}
	if kind != cmdBuy && kind != cmdUse {
		if len(fields) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", fields[0])
		}
		return c, nil
	}
	if len(fields) != 2 {
		return command{}, fmt.Errorf("usage: %s <number>", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return command{}, fmt.Errorf("%q is not a list number", fields[1])
	}
	c.arg = n
	return c, nil
}

// parseChoice reads an answer to a prompt. Anything but a number in range
// cancels.
func parseChoice(input string, options int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > options {
		return 0, false
	}
	return n, true
}
