package main

import (
	"fmt"

	"learngl/core"
)

// frameCounter shows the frame rate in the window title once a second.
type frameCounter struct {
	window *core.Window
	title  string
	frames int
	since  float64
}

func newFrameCounter(w *core.Window, title string) *frameCounter {
	return &frameCounter{window: w, title: title, since: w.Time()}
}

func (c *frameCounter) tick(now float64) {
	c.frames++
	elapsed := now - c.since
	if elapsed < 1 {
		return
	}
	fps := float64(c.frames) / elapsed
	c.window.SetTitle(fmt.Sprintf("%s (%.0f fps, %.2f ms)", c.title, fps, 1000/fps))
	c.frames = 0
	c.since = now
}
