// Package object holds the transient game entities (tokens, particles,
// floating texts) and the pool that owns them.
package object

// ID uniquely identifies an entity within a pool.
type ID uint64

// Rand is the random source used when spawning entities.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Pool owns the three entity collections. Ordering within a collection is not
// meaningful: removal swaps the last element into the freed slot.
type Pool struct {
	Tokens    []Token
	Particles []Particle
	Texts     []FloatingText
	nextID    ID
}

// NewPool creates an empty pool with some preallocated room.
func NewPool() *Pool {
	return &Pool{
		Tokens:    make([]Token, 0, 32),
		Particles: make([]Particle, 0, 128),
		Texts:     make([]FloatingText, 0, 16),
	}
}

func (p *Pool) newID() ID {
	p.nextID++
	return p.nextID
}

// AddToken appends a token and returns its id.
func (p *Pool) AddToken(x, y, vy float64, category Category) ID {
	id := p.newID()
	p.Tokens = append(p.Tokens, NewToken(id, x, y, vy, category))
	return id
}

// AddParticle appends a particle with the given lifetime.
func (p *Pool) AddParticle(x, y, vx, vy, life float64) ID {
	id := p.newID()
	p.Particles = append(p.Particles, Particle{
		ID:      id,
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Life:    life,
		MaxLife: life,
	})
	return id
}

// AddText appends a floating text with the given lifetime.
func (p *Pool) AddText(x, y float64, value string, life float64) ID {
	id := p.newID()
	p.Texts = append(p.Texts, FloatingText{
		ID:      id,
		X:       x,
		Y:       y,
		Value:   value,
		Life:    life,
		MaxLife: life,
	})
	return id
}

// Clear empties every collection, keeping the backing arrays.
func (p *Pool) Clear() {
	clear(p.Texts) // drop string references
	p.Tokens = p.Tokens[:0]
	p.Particles = p.Particles[:0]
	p.Texts = p.Texts[:0]
}

// Len returns the total number of live entities.
func (p *Pool) Len() int {
	return len(p.Tokens) + len(p.Particles) + len(p.Texts)
}

// AdvanceTokens moves every token down by its fall speed.
func (p *Pool) AdvanceTokens(dt float64) {
	for i := range p.Tokens {
		p.Tokens[i].Y += p.Tokens[i].VY * dt
	}
}

// AdvanceParticles steps every particle and prunes the expired ones.
func (p *Pool) AdvanceParticles(dt, gravity float64) {
	p.Particles, _ = swapRemove(p.Particles, func(pt *Particle) bool {
		return !pt.Advance(dt, gravity)
	})
}

// AdvanceTexts steps every floating text and prunes the expired ones.
func (p *Pool) AdvanceTexts(dt, rise float64) {
	p.Texts, _ = swapRemove(p.Texts, func(t *FloatingText) bool {
		return !t.Advance(dt, rise)
	})
}

// RemoveTokens removes every token for which drop returns true and reports
// how many were removed.
func (p *Pool) RemoveTokens(drop func(*Token) bool) int {
	var n int
	p.Tokens, n = swapRemove(p.Tokens, drop)
	return n
}

// RemoveTokenIDs removes the tokens with the given ids in one pass.
func (p *Pool) RemoveTokenIDs(ids []ID) int {
	if len(ids) == 0 {
		return 0
	}
	set := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return p.RemoveTokens(func(t *Token) bool {
		_, ok := set[t.ID]
		return ok
	})
}

// swapRemove deletes matching items by moving the tail element into their
// slot. It reuses the backing array and zeroes the abandoned tail.
func swapRemove[T any](items []T, drop func(*T) bool) ([]T, int) {
	n := len(items)
	for i := 0; i < n; {
		if drop(&items[i]) {
			n--
			items[i] = items[n]
			continue
		}
		i++
	}
	removed := len(items) - n
	clear(items[n:])
	return items[:n], removed
}
