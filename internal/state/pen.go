package state

import "sync"

// Pen is the live pen value shared between its owner and the renderer.
// There is no history: the current value is the only value.
type Pen struct {
	settings PenSettings
	mu       sync.RWMutex
}

func NewPen(initial PenSettings) *Pen {
	return &Pen{settings: initial}
}

// Current returns the settings at the instant of the call.
func (p *Pen) Current() PenSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

func (p *Pen) Set(s PenSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
}

func (p *Pen) SetColor(c string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Color = c
}

func (p *Pen) SetWidth(w int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Width = w
}

// Update applies fn to the settings under a single write lock.
func (p *Pen) Update(fn func(*PenSettings)) PenSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.settings)
	return p.settings
}
