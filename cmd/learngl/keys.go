package main

// keyPress turns a polled key state into one event per press.
type keyPress struct {
	held bool
}

// update records the current state and reports whether the key went down
// since the previous call.
func (k *keyPress) update(down bool) bool {
	pressed := down && !k.held
	k.held = down
	return pressed
}
