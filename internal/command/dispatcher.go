package command

import (
	"errors"

	"github.com/fkcurrie/xclock-led-golang/internal/logger"
)

// Applier receives decoded commands. The display renderer implements it.
type Applier interface {
	Apply(cmd Command)
}

// Dispatcher routes named wire commands to an Applier. Malformed or unknown
// commands are logged and dropped; they never reach the display.
type Dispatcher struct {
	target Applier
	log    *logger.Logger
	addr   func() string
}

// NewDispatcher creates a dispatcher. addr supplies the address shown by
// showip and may be nil.
func NewDispatcher(target Applier, log *logger.Logger, addr func() string) *Dispatcher {
	if addr == nil {
		addr = func() string { return "NO IP" }
	}
	return &Dispatcher{target: target, log: log, addr: addr}
}

// Dispatch decodes and applies one command. The returned error is for
// callers that can report it (HTTP); the display state is untouched on error.
func (d *Dispatcher) Dispatch(name string, args []any) error {
	d.log.Info("Command received %s (%v)", name, args)
	cmd, err := Decode(name, args)
	if err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			d.log.Error("Invalid command received %s", name)
		} else {
			d.log.Error("Error processing command %s: %v", name, err)
		}
		return err
	}
	d.Submit(cmd)
	return nil
}

// Submit applies an already decoded command.
func (d *Dispatcher) Submit(cmd Command) {
	if ip, ok := cmd.(ShowIP); ok {
		text := ""
		if ip.Enabled {
			text = d.addr()
		}
		cmd = DisplayText{Text: text}
	}
	d.target.Apply(cmd)
}
