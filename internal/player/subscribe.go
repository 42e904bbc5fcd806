package player

// Subscribe returns a channel receiving every published state and a func to
// stop. A slow reader only ever misses intermediate states, never the latest.
func (p *Player) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.subMu.Unlock()

	var once bool
	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if once {
			return
		}
		once = true
		delete(p.subs, id)
		close(ch)
	}
}

func (p *Player) broadcast(state State) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- state:
		default:
			// drop the older pending state and keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
